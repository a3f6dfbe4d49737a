package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"tripvote/internal/config"
	"tripvote/internal/models/db_models"
	"tripvote/internal/models/request_models"
	"tripvote/internal/models/response_models"
	"tripvote/internal/repositories"
	"tripvote/pkg/keylock"
	"tripvote/pkg/utils"
)

type TripServiceInterface interface {
	CreateTrip(ctx context.Context, owner string, request request_models.CreateTripRequest) (*response_models.TripResponse, error)
	ListTrips(ctx context.Context, username string) ([]response_models.TripSummary, error)
	GetDayStatus(ctx context.Context, tripID string, dayNumber int, username string) (*response_models.DayStatusResponse, error)
	ResolveDay(ctx context.Context, tripID string, dayNumber int, username string, request request_models.ResolveDayRequest) (*response_models.DayStatusResponse, error)
	MoveActivity(ctx context.Context, tripID string, dayNumber int, username string, request request_models.MoveActivityRequest) (*response_models.DayStatusResponse, error)
	RecordView(ctx context.Context, tripID string, username string) error
	RecentlyViewed(ctx context.Context, username string) ([]response_models.RecentTripView, error)
}

const (
	// recentViewsScanned bounds how many raw views are read to find the
	// distinct recent trips.
	recentViewsScanned = 10
	recentTripsShown   = 3
)

type TripService struct {
	tripRepo   repositories.TripRepository
	memberRepo repositories.MemberRepository
	places     PlacesProvider
	planner    *Planner
	matrix     DistanceMatrixService
	locks      *keylock.KeyedMutex
	cfg        config.PlannerConfig
	log        *zap.Logger
	now        func() time.Time
}

func NewTripService(
	tripRepo repositories.TripRepository,
	memberRepo repositories.MemberRepository,
	places PlacesProvider,
	planner *Planner,
	matrix DistanceMatrixService,
	locks *keylock.KeyedMutex,
	cfg config.PlannerConfig,
	log *zap.Logger,
) TripServiceInterface {
	return &TripService{
		tripRepo:   tripRepo,
		memberRepo: memberRepo,
		places:     places,
		planner:    planner,
		matrix:     matrix,
		locks:      locks,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

func dayLockKey(tripID uuid.UUID, dayNumber int) string {
	return tripID.String() + "/" + strconv.Itoa(dayNumber)
}

func parseTripID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", utils.ErrTripNotFound, raw)
	}
	return id, nil
}

// normalizeCompanions trims and de-duplicates companion usernames and drops
// the owner.
func normalizeCompanions(owner string, companions []string) []string {
	seen := map[string]struct{}{owner: {}}
	out := make([]string, 0, len(companions))
	for _, c := range companions {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func (s *TripService) CreateTrip(ctx context.Context, owner string, request request_models.CreateTripRequest) (*response_models.TripResponse, error) {
	if strings.TrimSpace(owner) == "" || strings.TrimSpace(request.DestinationID) == "" {
		return nil, utils.ErrInvalidInput
	}
	start, err := utils.ParseDate(request.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := utils.ParseDate(request.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, utils.ErrInvalidDateRange
	}
	duration := utils.DaysInclusive(start, end)
	if s.cfg.MaxTripDays > 0 && duration > s.cfg.MaxTripDays {
		return nil, fmt.Errorf("%w: %d days", utils.ErrTripTooLong, duration)
	}

	group := append([]string{owner}, normalizeCompanions(owner, request.Companions)...)
	members, err := s.memberRepo.FindByUsernames(ctx, group)
	if err != nil {
		return nil, dbError(err)
	}
	if missing := missingMembers(group, members); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", utils.ErrMemberNotFound, strings.Join(missing, ", "))
	}

	dest, err := s.places.GetDetails(ctx, request.DestinationID)
	if err != nil {
		return nil, err
	}
	profile := profileFor(members, group)
	candidates, err := s.planner.InitialCandidates(ctx, dest, profile, start)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(request.Name)
	if name == "" {
		name = dest.Name
	}
	trip := &db_models.Trip{
		Owner:           owner,
		Name:            name,
		DestinationID:   dest.ID,
		DestinationName: dest.Name,
		PhotoURL:        dest.PhotoURL,
		DestinationLat:  dest.Lat,
		DestinationLon:  dest.Lon,
		StartDate:       start,
		EndDate:         end,
		Duration:        duration,
	}
	tripMembers := make([]db_models.TripMember, 0, len(group))
	for i, u := range group {
		role := db_models.TripRoleCompanion
		if i == 0 {
			role = db_models.TripRoleOwner
		}
		tripMembers = append(tripMembers, db_models.TripMember{Username: u, Role: role})
	}
	days := make([]db_models.TripDay, 0, duration)
	for n := 1; n <= duration; n++ {
		days = append(days, db_models.TripDay{
			DayNumber: n,
			Date:      utils.DayDate(start, n),
			Status:    db_models.DayStatusPending,
		})
	}

	err = s.tripRepo.Transaction(ctx, func(tx repositories.TripRepository) error {
		if err := tx.CreateTrip(ctx, trip, tripMembers, days); err != nil {
			return dbError(err)
		}
		_, err := newDayMachine(tx, s.log).beginVoting(ctx, &trip.Days[0], group, candidates)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("trip created",
		zap.String("trip_id", trip.ID.String()),
		zap.String("owner", owner),
		zap.Int("members", len(group)),
		zap.Int("duration", duration),
		zap.Strings("profile", profile.Tags()))

	resp := toTripResponse(trip)
	return &resp, nil
}

func missingMembers(group []string, found []db_models.Member) []string {
	have := make(map[string]struct{}, len(found))
	for _, m := range found {
		have[m.Username] = struct{}{}
	}
	var missing []string
	for _, u := range group {
		if _, ok := have[u]; !ok {
			missing = append(missing, u)
		}
	}
	return missing
}

func (s *TripService) ListTrips(ctx context.Context, username string) ([]response_models.TripSummary, error) {
	trips, err := s.tripRepo.ListTripsByMember(ctx, username)
	if err != nil {
		return nil, dbError(err)
	}
	out := make([]response_models.TripSummary, 0, len(trips))
	for i := range trips {
		summary, err := s.tripSummary(ctx, &trips[i])
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *TripService) tripSummary(ctx context.Context, trip *db_models.Trip) (response_models.TripSummary, error) {
	ids, err := s.tripRepo.ListTripActivityDestinationIDs(ctx, trip.ID)
	if err != nil {
		return response_models.TripSummary{}, dbError(err)
	}
	return response_models.TripSummary{
		TripResponse:  toTripResponse(trip),
		ActivityCount: len(ids),
	}, nil
}

// RecordView notes that username opened the trip.
func (s *TripService) RecordView(ctx context.Context, tripID string, username string) error {
	id, err := parseTripID(tripID)
	if err != nil {
		return err
	}
	if _, err := loadMemberTrip(ctx, s.tripRepo, id, username); err != nil {
		return err
	}
	view := &db_models.TripView{
		Username: username,
		TripID:   id,
		ViewedAt: s.now().UnixMilli(),
	}
	if err := s.tripRepo.RecordTripView(ctx, view); err != nil {
		return dbError(err)
	}
	return nil
}

// RecentlyViewed returns the last distinct trips the member opened, newest
// first. Trips the member has since left, or that are gone, are skipped.
func (s *TripService) RecentlyViewed(ctx context.Context, username string) ([]response_models.RecentTripView, error) {
	views, err := s.tripRepo.ListTripViews(ctx, username, recentViewsScanned)
	if err != nil {
		return nil, dbError(err)
	}

	out := make([]response_models.RecentTripView, 0, recentTripsShown)
	seen := make(map[uuid.UUID]struct{}, len(views))
	for _, v := range views {
		if len(out) == recentTripsShown {
			break
		}
		if _, ok := seen[v.TripID]; ok {
			continue
		}
		seen[v.TripID] = struct{}{}

		trip, err := s.tripRepo.GetTripByID(ctx, v.TripID)
		if err != nil {
			return nil, dbError(err)
		}
		if trip == nil || !trip.HasMember(username) {
			continue
		}
		summary, err := s.tripSummary(ctx, trip)
		if err != nil {
			return nil, err
		}
		out = append(out, response_models.RecentTripView{
			TripSummary: summary,
			ViewedAt:    time.UnixMilli(v.ViewedAt).UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

// loadMemberTrip fetches a trip and checks that username belongs to it.
func loadMemberTrip(ctx context.Context, repo repositories.TripRepository, tripID uuid.UUID, username string) (*db_models.Trip, error) {
	trip, err := repo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, dbError(err)
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	if !trip.HasMember(username) {
		return nil, utils.ErrNotTripMember
	}
	return trip, nil
}

func (s *TripService) GetDayStatus(ctx context.Context, tripID string, dayNumber int, username string) (*response_models.DayStatusResponse, error) {
	id, err := parseTripID(tripID)
	if err != nil {
		return nil, err
	}
	trip, err := loadMemberTrip(ctx, s.tripRepo, id, username)
	if err != nil {
		return nil, err
	}
	day, err := s.tripRepo.GetDay(ctx, id, dayNumber)
	if err != nil {
		return nil, dbError(err)
	}
	if day == nil {
		return nil, utils.ErrTripDayNotFound
	}
	return s.dayView(ctx, trip, day, username)
}

func (s *TripService) dayView(ctx context.Context, trip *db_models.Trip, day *db_models.TripDay, username string) (*response_models.DayStatusResponse, error) {
	view := &response_models.DayStatusResponse{
		TripID:    trip.ID.String(),
		DayNumber: day.DayNumber,
		Date:      utils.FormatDate(day.Date),
		Status:    string(day.Status),
	}

	switch day.Status {
	case db_models.DayStatusVoting:
		candidates, err := s.tripRepo.ListCandidates(ctx, day.ID)
		if err != nil {
			return nil, dbError(err)
		}
		group := trip.Usernames()
		voted, userVoted := voteProgress(candidates, group, username)
		total := len(group)
		view.MembersVoted = &voted
		view.TotalMembers = &total
		view.UserVoted = &userVoted
		view.Candidates = toCandidateResponses(candidates)
		view.NoCandidates = len(candidates) == 0

	case db_models.DayStatusComplete:
		view.Outcome = string(day.Outcome)
		view.ChosenDestinationID = day.ChosenDestinationID
		if day.Outcome == db_models.OutcomeUnresolved {
			candidates, err := s.tripRepo.ListCandidates(ctx, day.ID)
			if err != nil {
				return nil, dbError(err)
			}
			view.Candidates = toCandidateResponses(candidates)
			view.NoCandidates = len(candidates) == 0
		}

		activities, err := s.tripRepo.ListActivities(ctx, day.ID)
		if err != nil {
			return nil, dbError(err)
		}
		view.Activities = make([]response_models.ActivityResponse, 0, len(activities))
		view.ActivitiesByPeriod = map[string][]response_models.ActivityResponse{
			string(db_models.PeriodMorning):   {},
			string(db_models.PeriodAfternoon): {},
			string(db_models.PeriodNight):     {},
		}
		points := make([]MatrixPoint, 0, len(activities))
		for _, a := range activities {
			ar := toActivityResponse(a)
			view.Activities = append(view.Activities, ar)
			view.ActivitiesByPeriod[ar.Period] = append(view.ActivitiesByPeriod[ar.Period], ar)
			points = append(points, MatrixPoint{ID: a.DestinationID, Lat: a.Latitude, Lng: a.Longitude})
		}
		for _, leg := range ConsecutiveLegs(ctx, s.matrix, points, s.log) {
			view.Legs = append(view.Legs, response_models.LegResponse(leg))
		}
	}
	return view, nil
}

// voteProgress counts members whose every vote record is scored and reports
// whether username is one of them.
func voteProgress(candidates []db_models.CandidateDestination, group []string, username string) (int, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	pending := make(map[string]bool, len(group))
	for _, c := range candidates {
		for _, v := range c.Votes {
			if !v.HasVoted {
				pending[v.Username] = true
			}
		}
	}
	voted := 0
	userVoted := false
	for _, u := range group {
		if !pending[u] {
			voted++
			if u == username {
				userVoted = true
			}
		}
	}
	return voted, userVoted
}

func (s *TripService) ResolveDay(ctx context.Context, tripID string, dayNumber int, username string, request request_models.ResolveDayRequest) (*response_models.DayStatusResponse, error) {
	id, err := parseTripID(tripID)
	if err != nil {
		return nil, err
	}
	destinationID := strings.TrimSpace(request.DestinationID)
	if destinationID == "" {
		return nil, utils.ErrInvalidInput
	}

	unlock := s.locks.Lock(dayLockKey(id, dayNumber))
	defer unlock()

	var trip *db_models.Trip
	var day *db_models.TripDay
	err = s.tripRepo.Transaction(ctx, func(tx repositories.TripRepository) error {
		var err error
		trip, err = loadMemberTrip(ctx, tx, id, username)
		if err != nil {
			return err
		}
		if trip.Owner != username {
			return utils.ErrNotTripOwner
		}
		day, err = tx.LockDay(ctx, id, dayNumber)
		if err != nil {
			return dbError(err)
		}
		if day == nil {
			return utils.ErrTripDayNotFound
		}

		candidates, err := tx.ListCandidates(ctx, day.ID)
		if err != nil {
			return dbError(err)
		}
		if len(candidates) > 0 && !hasCandidate(candidates, destinationID) {
			return fmt.Errorf("%w: %s", utils.ErrUnknownCandidate, destinationID)
		}

		ok, err := newDayMachine(tx, s.log).resolveManually(ctx, day, destinationID)
		if err != nil {
			return err
		}
		if !ok {
			return utils.ErrConsensusResolved
		}

		used, err := tx.ListTripActivityDestinationIDs(ctx, trip.ID)
		if err != nil {
			return dbError(err)
		}
		for _, u := range used {
			if u == destinationID {
				return fmt.Errorf("%w: %s", utils.ErrDestinationPlanned, destinationID)
			}
		}
		if len(candidates) == 0 {
			// free pick: the destination must exist upstream
			if _, err := s.places.GetDetails(ctx, destinationID); err != nil {
				return err
			}
		}
		_, err = s.planner.Progress(ctx, tx, trip, day, destinationID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.dayView(ctx, trip, day, username)
}

func hasCandidate(candidates []db_models.CandidateDestination, destinationID string) bool {
	for _, c := range candidates {
		if c.DestinationID == destinationID {
			return true
		}
	}
	return false
}

func (s *TripService) MoveActivity(ctx context.Context, tripID string, dayNumber int, username string, request request_models.MoveActivityRequest) (*response_models.DayStatusResponse, error) {
	id, err := parseTripID(tripID)
	if err != nil {
		return nil, err
	}
	activityID, err := uuid.Parse(request.ActivityID)
	if err != nil {
		return nil, utils.ErrActivityNotFound
	}

	unlock := s.locks.Lock(dayLockKey(id, dayNumber))
	defer unlock()

	var trip *db_models.Trip
	var day *db_models.TripDay
	err = s.tripRepo.Transaction(ctx, func(tx repositories.TripRepository) error {
		var err error
		trip, err = loadMemberTrip(ctx, tx, id, username)
		if err != nil {
			return err
		}
		day, err = tx.LockDay(ctx, id, dayNumber)
		if err != nil {
			return dbError(err)
		}
		if day == nil {
			return utils.ErrTripDayNotFound
		}
		if day.Status != db_models.DayStatusComplete {
			return utils.ErrDayNotComplete
		}

		activities, err := tx.ListActivities(ctx, day.ID)
		if err != nil {
			return dbError(err)
		}
		reordered, err := moveActivity(activities, activityID, request.NewOrder)
		if err != nil {
			return err
		}
		if err := tx.UpdateActivityPositions(ctx, reordered); err != nil {
			return dbError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.dayView(ctx, trip, day, username)
}

// moveActivity places the activity at newOrder (1-based) and renumbers the
// rest in their existing order. Periods that came from the position follow
// the new position.
func moveActivity(activities []db_models.Activity, activityID uuid.UUID, newOrder int) ([]db_models.Activity, error) {
	sort.SliceStable(activities, func(i, j int) bool { return activities[i].Position < activities[j].Position })

	from := -1
	for i, a := range activities {
		if a.ID == activityID {
			from = i
			break
		}
	}
	if from < 0 {
		return nil, utils.ErrActivityNotFound
	}
	if newOrder < 1 || newOrder > len(activities) {
		return nil, fmt.Errorf("%w: %d not in 1..%d", utils.ErrInvalidActivityPos, newOrder, len(activities))
	}

	moved := activities[from]
	rest := append(append([]db_models.Activity{}, activities[:from]...), activities[from+1:]...)
	out := make([]db_models.Activity, 0, len(activities))
	out = append(out, rest[:newOrder-1]...)
	out = append(out, moved)
	out = append(out, rest[newOrder-1:]...)
	for i := range out {
		out[i].Position = i + 1
		if !out[i].PeriodFromHours {
			out[i].Period = positionPeriod(out[i].Position)
		}
	}
	return out, nil
}

func toTripResponse(t *db_models.Trip) response_models.TripResponse {
	companions := t.Companions()
	if companions == nil {
		companions = []string{}
	}
	return response_models.TripResponse{
		ID:              t.ID.String(),
		Name:            t.Name,
		Owner:           t.Owner,
		Companions:      companions,
		DestinationID:   t.DestinationID,
		DestinationName: t.DestinationName,
		PhotoURL:        t.PhotoURL,
		StartDate:       utils.FormatDate(t.StartDate),
		EndDate:         utils.FormatDate(t.EndDate),
		Duration:        t.Duration,
	}
}

func toCandidateResponses(candidates []db_models.CandidateDestination) []response_models.CandidateResponse {
	out := make([]response_models.CandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, response_models.CandidateResponse{
			DestinationID: c.DestinationID,
			Name:          c.Name,
			Summary:       c.Summary,
			PhotoURL:      c.PhotoURL,
			Categories:    []string(c.Categories),
			Rank:          c.Rank,
			MatchCount:    c.MatchCount,
		})
	}
	return out
}

func toActivityResponse(a db_models.Activity) response_models.ActivityResponse {
	return response_models.ActivityResponse{
		ID:            a.ID.String(),
		DestinationID: a.DestinationID,
		Name:          a.Name,
		Summary:       a.Summary,
		PhotoURL:      a.PhotoURL,
		Latitude:      a.Latitude,
		Longitude:     a.Longitude,
		Order:         a.Position,
		Period:        string(a.Period),
	}
}
