package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"tripvote/internal/models/db_models"
	"tripvote/internal/models/response_models"
	"tripvote/internal/observability"
	"tripvote/internal/repositories"
	"tripvote/pkg/keylock"
	"tripvote/pkg/utils"
)

const (
	MinScore = 0
	MaxScore = 10
)

type VoteServiceInterface interface {
	SubmitVote(ctx context.Context, tripID string, dayNumber int, username string, scores map[string]int) (*response_models.VoteResult, error)
}

type VoteService struct {
	tripRepo repositories.TripRepository
	planner  *Planner
	locks    *keylock.KeyedMutex
	log      *zap.Logger
}

func NewVoteService(tripRepo repositories.TripRepository, planner *Planner, locks *keylock.KeyedMutex, log *zap.Logger) VoteServiceInterface {
	return &VoteService{
		tripRepo: tripRepo,
		planner:  planner,
		locks:    locks,
		log:      log,
	}
}

func validateBallot(scores map[string]int) error {
	if len(scores) == 0 {
		return utils.ErrEmptyBallot
	}
	for dest, score := range scores {
		if dest == "" {
			return fmt.Errorf("%w: empty destination id", utils.ErrInvalidInput)
		}
		if score < MinScore || score > MaxScore {
			return fmt.Errorf("%w: %s scored %d", utils.ErrScoreOutOfRange, dest, score)
		}
	}
	return nil
}

// SubmitVote records the member's scores for a voting day. The write and the
// all-voted check run under a per-day lock inside one transaction that also
// row-locks the day, so the day completes once. The submission that
// completes the day resolves consensus and plans the day in the same
// transaction; any failure rolls the vote back.
func (s *VoteService) SubmitVote(ctx context.Context, tripID string, dayNumber int, username string, scores map[string]int) (*response_models.VoteResult, error) {
	if err := validateBallot(scores); err != nil {
		return nil, err
	}
	id, err := parseTripID(tripID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(dayLockKey(id, dayNumber))
	defer unlock()

	result := &response_models.VoteResult{TripID: id.String(), DayNumber: dayNumber}
	err = s.tripRepo.Transaction(ctx, func(tx repositories.TripRepository) error {
		trip, err := loadMemberTrip(ctx, tx, id, username)
		if err != nil {
			return err
		}
		day, err := tx.LockDay(ctx, id, dayNumber)
		if err != nil {
			return dbError(err)
		}
		if day == nil {
			return utils.ErrTripDayNotFound
		}
		if day.Status != db_models.DayStatusVoting {
			return fmt.Errorf("%w: day %d is %s", utils.ErrDayNotVoting, dayNumber, day.Status)
		}

		candidates, err := tx.ListCandidates(ctx, day.ID)
		if err != nil {
			return dbError(err)
		}
		if err := s.recordScores(ctx, tx, candidates, username, scores); err != nil {
			return err
		}

		votes, err := tx.ListVotes(ctx, day.ID)
		if err != nil {
			return dbError(err)
		}
		group := trip.Usernames()
		voted, pending := countVoted(votes, group)
		result.MembersVoted = voted
		result.TotalMembers = len(group)
		result.Status = string(day.Status)
		if pending > 0 {
			return nil
		}

		consensus := ResolveConsensus(len(group), toBallots(candidates, votes))
		completed, err := newDayMachine(tx, s.log).complete(ctx, day, consensus)
		if err != nil {
			return err
		}
		if !completed {
			// lost the race; the winner runs the side effects
			return nil
		}
		result.Status = string(day.Status)
		result.Outcome = string(day.Outcome)
		result.ChosenDestinationID = day.ChosenDestinationID

		if !consensus.Resolved {
			return nil
		}
		next, err := s.planner.Progress(ctx, tx, trip, day, consensus.DestinationID)
		if err != nil {
			return err
		}
		result.NextDayNumber = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.RecordBallot()
	s.log.Info("vote recorded",
		zap.String("trip_id", result.TripID),
		zap.Int("day", dayNumber),
		zap.String("username", username),
		zap.Int("members_voted", result.MembersVoted),
		zap.Int("total_members", result.TotalMembers))
	return result, nil
}

// recordScores writes each score into the member's vote record for that
// candidate. Unknown candidates and already scored records abort the ballot.
func (s *VoteService) recordScores(ctx context.Context, tx repositories.TripRepository, candidates []db_models.CandidateDestination, username string, scores map[string]int) error {
	byDestination := make(map[string]*db_models.CandidateDestination, len(candidates))
	for i := range candidates {
		byDestination[candidates[i].DestinationID] = &candidates[i]
	}

	destinations := make([]string, 0, len(scores))
	for dest := range scores {
		destinations = append(destinations, dest)
	}
	sort.Strings(destinations)

	for _, dest := range destinations {
		candidate, ok := byDestination[dest]
		if !ok {
			return fmt.Errorf("%w: %s", utils.ErrUnknownCandidate, dest)
		}
		record := memberVote(candidate, username)
		if record == nil {
			return fmt.Errorf("%w: no vote record for %s", utils.ErrNotTripMember, username)
		}
		if record.HasVoted {
			return fmt.Errorf("%w: %s", utils.ErrAlreadyVoted, dest)
		}
		ok, err := tx.RecordVote(ctx, record.ID, scores[dest])
		if err != nil {
			return dbError(err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", utils.ErrAlreadyVoted, dest)
		}
	}
	return nil
}

func memberVote(candidate *db_models.CandidateDestination, username string) *db_models.VoteRecord {
	for i := range candidate.Votes {
		if candidate.Votes[i].Username == username {
			return &candidate.Votes[i]
		}
	}
	return nil
}

// countVoted returns how many group members have scored every candidate and
// how many vote records are still open.
func countVoted(votes []db_models.VoteRecord, group []string) (int, int) {
	open := 0
	hasOpen := make(map[string]bool, len(group))
	for _, v := range votes {
		if !v.HasVoted {
			open++
			hasOpen[v.Username] = true
		}
	}
	voted := 0
	if len(votes) > 0 {
		for _, u := range group {
			if !hasOpen[u] {
				voted++
			}
		}
	}
	return voted, open
}

func toBallots(candidates []db_models.CandidateDestination, votes []db_models.VoteRecord) []Ballot {
	destByCandidate := make(map[uuid.UUID]string, len(candidates))
	for _, c := range candidates {
		destByCandidate[c.ID] = c.DestinationID
	}
	ballots := make([]Ballot, 0, len(votes))
	for _, v := range votes {
		ballots = append(ballots, Ballot{
			Username:      v.Username,
			DestinationID: destByCandidate[v.CandidateID],
			Score:         v.Score,
		})
	}
	return ballots
}
