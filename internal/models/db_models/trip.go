package db_models

import (
	"time"

	"github.com/google/uuid"
)

type Trip struct {
	BaseModel
	Owner           string `gorm:"index;size:64;not null"`
	Name            string
	DestinationID   string `gorm:"not null"`
	DestinationName string
	PhotoURL        string
	DestinationLat  float64
	DestinationLon  float64
	StartDate       time.Time
	EndDate         time.Time
	Duration        int `gorm:"not null"`

	Members []TripMember `gorm:"foreignKey:TripID"`
	Days    []TripDay    `gorm:"foreignKey:TripID"`
}

type TripMemberRole string

const (
	TripRoleOwner     TripMemberRole = "owner"
	TripRoleCompanion TripMemberRole = "companion"
)

// TripMember attaches a member to a trip. The travel group of a trip is the
// set of its TripMember rows.
type TripMember struct {
	BaseModel
	TripID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_trip_member"`
	Username string         `gorm:"size:64;not null;uniqueIndex:idx_trip_member;index"`
	Role     TripMemberRole `gorm:"size:16;not null"`
}

// Usernames returns the travel group, owner first.
func (t *Trip) Usernames() []string {
	out := make([]string, 0, len(t.Members)+1)
	seen := make(map[string]struct{}, len(t.Members)+1)
	add := func(u string) {
		if _, ok := seen[u]; ok || u == "" {
			return
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	add(t.Owner)
	for _, m := range t.Members {
		add(m.Username)
	}
	return out
}

func (t *Trip) HasMember(username string) bool {
	for _, u := range t.Usernames() {
		if u == username {
			return true
		}
	}
	return false
}

// Companions returns the travel group without the owner.
func (t *Trip) Companions() []string {
	group := t.Usernames()
	if len(group) == 0 {
		return nil
	}
	return group[1:]
}
