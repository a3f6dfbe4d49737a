package db_models

import (
	"time"

	"github.com/google/uuid"
)

// DayStatus is the voting lifecycle of a single trip day.
type DayStatus string

const (
	DayStatusPending  DayStatus = "pending"
	DayStatusVoting   DayStatus = "voting"
	DayStatusComplete DayStatus = "complete"
)

// CanAdvanceTo reports whether to is the single legal successor of s.
// Statuses only move forward: pending -> voting -> complete.
func (s DayStatus) CanAdvanceTo(to DayStatus) bool {
	switch s {
	case DayStatusPending:
		return to == DayStatusVoting
	case DayStatusVoting:
		return to == DayStatusComplete
	default:
		return false
	}
}

func (s DayStatus) Valid() bool {
	switch s {
	case DayStatusPending, DayStatusVoting, DayStatusComplete:
		return true
	}
	return false
}

// ConsensusOutcome is recorded when a day completes.
type ConsensusOutcome string

const (
	OutcomeNone       ConsensusOutcome = ""
	OutcomeResolved   ConsensusOutcome = "resolved"
	OutcomeUnresolved ConsensusOutcome = "unresolved"
)

type TripDay struct {
	BaseModel
	TripID              uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_trip_day_number"`
	DayNumber           int              `gorm:"not null;uniqueIndex:idx_trip_day_number"`
	Date                time.Time        `gorm:"not null"`
	Status              DayStatus        `gorm:"size:16;not null;default:pending"`
	Outcome             ConsensusOutcome `gorm:"size:16"`
	ChosenDestinationID string

	Candidates []CandidateDestination `gorm:"foreignKey:TripDayID"`
	Activities []Activity             `gorm:"foreignKey:TripDayID"`
}
