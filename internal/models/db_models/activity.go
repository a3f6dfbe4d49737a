package db_models

import "github.com/google/uuid"

type ActivityPeriod string

const (
	PeriodMorning   ActivityPeriod = "morning"
	PeriodAfternoon ActivityPeriod = "afternoon"
	PeriodNight     ActivityPeriod = "night"
)

type Activity struct {
	BaseModel
	TripDayID     uuid.UUID `gorm:"type:uuid;not null;index"`
	DestinationID string    `gorm:"not null;index"`
	Name          string
	Summary       string
	PhotoURL      string
	Latitude      float64
	Longitude     float64
	Position      int            `gorm:"not null"`
	Period        ActivityPeriod `gorm:"size:16;not null;default:morning"`

	// PeriodFromHours is false when Period was derived from Position.
	PeriodFromHours bool `gorm:"not null;default:false"`
}
