package db_models

import "github.com/google/uuid"

// TripView records one time a member opened a trip.
type TripView struct {
	BaseModel
	Username string    `gorm:"size:64;not null;index:idx_member_viewed,priority:1"`
	TripID   uuid.UUID `gorm:"type:uuid;not null;index"`
	// ViewedAt is unix milliseconds.
	ViewedAt int64 `gorm:"not null;index:idx_member_viewed,priority:2,sort:desc"`
}
