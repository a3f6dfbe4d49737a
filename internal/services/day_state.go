package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"tripvote/internal/models/db_models"
	"tripvote/internal/observability"
	"tripvote/internal/repositories"
	"tripvote/pkg/utils"
)

// dayMachine performs trip-day transitions together with their side
// effects. It must be built on a transaction-scoped repository so that a
// transition and its side effects commit or roll back as one unit.
type dayMachine struct {
	repo repositories.TripRepository
	log  *zap.Logger
}

func newDayMachine(repo repositories.TripRepository, log *zap.Logger) dayMachine {
	return dayMachine{repo: repo, log: log}
}

// beginVoting moves a pending day to voting and writes its candidate set with
// one unscored vote record per member and candidate. It returns false when
// the day was no longer pending, in which case nothing is written.
func (m dayMachine) beginVoting(ctx context.Context, day *db_models.TripDay, members []string, candidates []RankedDestination) (bool, error) {
	if !day.Status.CanAdvanceTo(db_models.DayStatusVoting) {
		return false, fmt.Errorf("%w: day %d is %s", utils.ErrIllegalTransition, day.DayNumber, day.Status)
	}

	ok, err := m.repo.AdvanceDayStatus(ctx, day.ID, db_models.DayStatusPending, db_models.DayStatusVoting)
	if err != nil {
		return false, dbError(err)
	}
	if !ok {
		return false, nil
	}
	day.Status = db_models.DayStatusVoting

	rows := make([]db_models.CandidateDestination, 0, len(candidates))
	votes := make([]db_models.VoteRecord, 0, len(candidates)*len(members))
	for i, c := range candidates {
		row := db_models.CandidateDestination{
			TripDayID:     day.ID,
			DestinationID: c.ID,
			Name:          c.Name,
			Summary:       c.Summary,
			PhotoURL:      c.PhotoURL,
			Categories:    db_models.StringList(c.Categories),
			Rank:          i + 1,
			MatchCount:    c.MatchCount,
		}
		row.ID = uuid.New()
		rows = append(rows, row)
		for _, username := range members {
			votes = append(votes, db_models.VoteRecord{
				CandidateID: row.ID,
				TripDayID:   day.ID,
				Username:    username,
			})
		}
	}

	if err := m.repo.CreateCandidates(ctx, rows); err != nil {
		return false, dbError(err)
	}
	if err := m.repo.CreateVotes(ctx, votes); err != nil {
		return false, dbError(err)
	}

	observability.RecordCandidatePool(len(rows))
	fields := []zap.Field{
		zap.String("trip_id", day.TripID.String()),
		zap.Int("day", day.DayNumber),
		zap.Int("candidates", len(rows)),
	}
	if len(rows) > 0 {
		m.log.Info("day entered voting", fields...)
		return true, nil
	}

	// With no vote records every record has been voted on, so the day
	// completes at once, unresolved, and waits for the owner to pick.
	m.log.Warn("no candidates", fields...)
	if _, err := m.complete(ctx, day, ConsensusResult{}); err != nil {
		return false, err
	}
	return true, nil
}

// complete moves a voting day to complete and records the consensus outcome.
// It returns false when another writer already completed the day.
func (m dayMachine) complete(ctx context.Context, day *db_models.TripDay, result ConsensusResult) (bool, error) {
	if !day.Status.CanAdvanceTo(db_models.DayStatusComplete) {
		return false, fmt.Errorf("%w: day %d is %s", utils.ErrIllegalTransition, day.DayNumber, day.Status)
	}

	outcome := db_models.OutcomeUnresolved
	if result.Resolved {
		outcome = db_models.OutcomeResolved
	}

	ok, err := m.repo.CompleteDay(ctx, day.ID, outcome, result.DestinationID)
	if err != nil {
		return false, dbError(err)
	}
	if !ok {
		return false, nil
	}
	day.Status = db_models.DayStatusComplete
	day.Outcome = outcome
	day.ChosenDestinationID = result.DestinationID

	observability.RecordDayCompleted(string(outcome))
	fields := []zap.Field{
		zap.String("trip_id", day.TripID.String()),
		zap.Int("day", day.DayNumber),
	}
	if result.Resolved {
		m.log.Info("day completed", append(fields,
			zap.String("destination_id", result.DestinationID),
			zap.Float64("support", result.Support))...)
	} else {
		m.log.Warn("consensus unresolved", fields...)
	}
	return true, nil
}

// resolveManually records the owner's pick for an unresolved day.
func (m dayMachine) resolveManually(ctx context.Context, day *db_models.TripDay, destinationID string) (bool, error) {
	if day.Status != db_models.DayStatusComplete {
		return false, utils.ErrDayNotComplete
	}
	if day.Outcome != db_models.OutcomeUnresolved {
		return false, utils.ErrConsensusResolved
	}

	ok, err := m.repo.ResolveDayOutcome(ctx, day.ID, destinationID)
	if err != nil {
		return false, dbError(err)
	}
	if !ok {
		return false, nil
	}
	day.Outcome = db_models.OutcomeResolved
	day.ChosenDestinationID = destinationID

	m.log.Info("day resolved by owner",
		zap.String("trip_id", day.TripID.String()),
		zap.Int("day", day.DayNumber),
		zap.String("destination_id", destinationID))
	return true, nil
}

func dbError(err error) error {
	return fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
}
