package db_models

import "github.com/google/uuid"

// CandidateDestination is one entry of a day's vote shortlist.
type CandidateDestination struct {
	BaseModel
	TripDayID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_day_destination"`
	DestinationID string    `gorm:"not null;uniqueIndex:idx_day_destination"`
	Name          string
	Summary       string
	PhotoURL      string
	Categories    StringList
	Rank          int
	MatchCount    int

	Votes []VoteRecord `gorm:"foreignKey:CandidateID"`
}

type VoteRecord struct {
	BaseModel
	CandidateID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_candidate_member"`
	TripDayID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Username    string    `gorm:"size:64;not null;uniqueIndex:idx_candidate_member"`
	Score       int       `gorm:"not null;default:0;check:chk_vote_score,score >= 0 AND score <= 10"`
	HasVoted    bool      `gorm:"not null;default:false"`
}
