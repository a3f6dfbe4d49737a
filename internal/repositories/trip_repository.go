package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	dbm "tripvote/internal/models/db_models"
)

// TripRepository persists trips, their days, candidate shortlists, votes and
// activities. Every method runs against the repository's own handle, so the
// repo passed to a Transaction callback scopes all of its calls to that tx.
type TripRepository interface {
	Transaction(ctx context.Context, fn func(repo TripRepository) error) error

	CreateTrip(ctx context.Context, trip *dbm.Trip, members []dbm.TripMember, days []dbm.TripDay) error
	GetTripByID(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error)
	ListTripsByMember(ctx context.Context, username string) ([]dbm.Trip, error)

	GetDay(ctx context.Context, tripID uuid.UUID, dayNumber int) (*dbm.TripDay, error)
	LockDay(ctx context.Context, tripID uuid.UUID, dayNumber int) (*dbm.TripDay, error)
	ListDays(ctx context.Context, tripID uuid.UUID) ([]dbm.TripDay, error)
	AdvanceDayStatus(ctx context.Context, dayID uuid.UUID, from, to dbm.DayStatus) (bool, error)
	CompleteDay(ctx context.Context, dayID uuid.UUID, outcome dbm.ConsensusOutcome, chosenID string) (bool, error)
	ResolveDayOutcome(ctx context.Context, dayID uuid.UUID, chosenID string) (bool, error)

	CreateCandidates(ctx context.Context, candidates []dbm.CandidateDestination) error
	ListCandidates(ctx context.Context, dayID uuid.UUID) ([]dbm.CandidateDestination, error)
	CreateVotes(ctx context.Context, votes []dbm.VoteRecord) error
	ListVotes(ctx context.Context, dayID uuid.UUID) ([]dbm.VoteRecord, error)
	RecordVote(ctx context.Context, voteID uuid.UUID, score int) (bool, error)

	CreateActivities(ctx context.Context, activities []dbm.Activity) error
	ListActivities(ctx context.Context, dayID uuid.UUID) ([]dbm.Activity, error)
	ListTripActivityDestinationIDs(ctx context.Context, tripID uuid.UUID) ([]string, error)
	UpdateActivityPositions(ctx context.Context, activities []dbm.Activity) error

	RecordTripView(ctx context.Context, view *dbm.TripView) error
	ListTripViews(ctx context.Context, username string, limit int) ([]dbm.TripView, error)

	GetMembers(ctx context.Context, usernames []string) ([]dbm.Member, error)
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) Transaction(ctx context.Context, fn func(repo TripRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&tripRepository{db: tx})
	})
}

func (r *tripRepository) CreateTrip(ctx context.Context, trip *dbm.Trip, members []dbm.TripMember, days []dbm.TripDay) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(trip).Error; err != nil {
		return err
	}
	for i := range members {
		members[i].TripID = trip.ID
	}
	for i := range days {
		days[i].TripID = trip.ID
	}
	if len(members) > 0 {
		if err := db.Create(&members).Error; err != nil {
			return err
		}
	}
	if len(days) > 0 {
		if err := db.Omit(clause.Associations).Create(&days).Error; err != nil {
			return err
		}
	}
	trip.Members = members
	trip.Days = days
	return nil
}

func (r *tripRepository) GetTripByID(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error) {
	var trip dbm.Trip
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, username ASC") }).
		First(&trip, "id = ?", tripID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) ListTripsByMember(ctx context.Context, username string) ([]dbm.Trip, error) {
	var trips []dbm.Trip
	err := r.db.WithContext(ctx).
		Joins("JOIN trip_members tm ON tm.trip_id = trips.id AND tm.deleted_at IS NULL").
		Where("tm.username = ?", username).
		Preload("Members").
		Order("trips.start_date DESC, trips.created_at DESC").
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *tripRepository) GetDay(ctx context.Context, tripID uuid.UUID, dayNumber int) (*dbm.TripDay, error) {
	return r.findDay(r.db.WithContext(ctx), tripID, dayNumber)
}

// LockDay reads the day row with FOR UPDATE. It only locks when called on a
// transaction-scoped repository.
func (r *tripRepository) LockDay(ctx context.Context, tripID uuid.UUID, dayNumber int) (*dbm.TripDay, error) {
	return r.findDay(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), tripID, dayNumber)
}

func (r *tripRepository) findDay(db *gorm.DB, tripID uuid.UUID, dayNumber int) (*dbm.TripDay, error) {
	var day dbm.TripDay
	err := db.Where("trip_id = ? AND day_number = ?", tripID, dayNumber).First(&day).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &day, nil
}

func (r *tripRepository) ListDays(ctx context.Context, tripID uuid.UUID) ([]dbm.TripDay, error) {
	var days []dbm.TripDay
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("day_number ASC").
		Find(&days).Error
	return days, err
}

// AdvanceDayStatus moves a day from one status to the next only if it is
// still in from. It reports false when another writer got there first.
func (r *tripRepository) AdvanceDayStatus(ctx context.Context, dayID uuid.UUID, from, to dbm.DayStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&dbm.TripDay{}).
		Where("id = ? AND status = ?", dayID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *tripRepository) CompleteDay(ctx context.Context, dayID uuid.UUID, outcome dbm.ConsensusOutcome, chosenID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&dbm.TripDay{}).
		Where("id = ? AND status = ?", dayID, dbm.DayStatusVoting).
		Updates(map[string]interface{}{
			"status":                dbm.DayStatusComplete,
			"outcome":               outcome,
			"chosen_destination_id": chosenID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *tripRepository) ResolveDayOutcome(ctx context.Context, dayID uuid.UUID, chosenID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&dbm.TripDay{}).
		Where("id = ? AND status = ? AND outcome = ?", dayID, dbm.DayStatusComplete, dbm.OutcomeUnresolved).
		Updates(map[string]interface{}{
			"outcome":               dbm.OutcomeResolved,
			"chosen_destination_id": chosenID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *tripRepository) CreateCandidates(ctx context.Context, candidates []dbm.CandidateDestination) error {
	if len(candidates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&candidates).Error
}

func (r *tripRepository) ListCandidates(ctx context.Context, dayID uuid.UUID) ([]dbm.CandidateDestination, error) {
	var candidates []dbm.CandidateDestination
	err := r.db.WithContext(ctx).
		Preload("Votes", func(db *gorm.DB) *gorm.DB { return db.Order("username ASC") }).
		Where("trip_day_id = ?", dayID).
		Order("rank ASC").
		Find(&candidates).Error
	return candidates, err
}

func (r *tripRepository) CreateVotes(ctx context.Context, votes []dbm.VoteRecord) error {
	if len(votes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&votes).Error
}

func (r *tripRepository) ListVotes(ctx context.Context, dayID uuid.UUID) ([]dbm.VoteRecord, error) {
	var votes []dbm.VoteRecord
	err := r.db.WithContext(ctx).
		Where("trip_day_id = ?", dayID).
		Order("username ASC, candidate_id ASC").
		Find(&votes).Error
	return votes, err
}

// RecordVote writes a score into an unscored vote record. It reports false
// when the record was already scored.
func (r *tripRepository) RecordVote(ctx context.Context, voteID uuid.UUID, score int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&dbm.VoteRecord{}).
		Where("id = ? AND has_voted = ?", voteID, false).
		Updates(map[string]interface{}{
			"score":     score,
			"has_voted": true,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *tripRepository) CreateActivities(ctx context.Context, activities []dbm.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&activities).Error
}

func (r *tripRepository) ListActivities(ctx context.Context, dayID uuid.UUID) ([]dbm.Activity, error) {
	var activities []dbm.Activity
	err := r.db.WithContext(ctx).
		Where("trip_day_id = ?", dayID).
		Order("position ASC").
		Find(&activities).Error
	return activities, err
}

func (r *tripRepository) ListTripActivityDestinationIDs(ctx context.Context, tripID uuid.UUID) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&dbm.Activity{}).
		Joins("JOIN trip_days td ON td.id = activities.trip_day_id AND td.deleted_at IS NULL").
		Where("td.trip_id = ?", tripID).
		Distinct().
		Pluck("activities.destination_id", &ids).Error
	return ids, err
}

func (r *tripRepository) UpdateActivityPositions(ctx context.Context, activities []dbm.Activity) error {
	db := r.db.WithContext(ctx)
	for _, a := range activities {
		err := db.Model(&dbm.Activity{}).
			Where("id = ?", a.ID).
			Updates(map[string]interface{}{
				"position": a.Position,
				"period":   a.Period,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *tripRepository) RecordTripView(ctx context.Context, view *dbm.TripView) error {
	return r.db.WithContext(ctx).Create(view).Error
}

// ListTripViews returns the member's latest views, newest first.
func (r *tripRepository) ListTripViews(ctx context.Context, username string, limit int) ([]dbm.TripView, error) {
	var views []dbm.TripView
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("viewed_at DESC").
		Limit(limit).
		Find(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (r *tripRepository) GetMembers(ctx context.Context, usernames []string) ([]dbm.Member, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	var members []dbm.Member
	err := r.db.WithContext(ctx).
		Where("username IN ?", usernames).
		Order("username ASC").
		Find(&members).Error
	return members, err
}
