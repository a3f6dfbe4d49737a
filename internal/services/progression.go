package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"tripvote/internal/config"
	"tripvote/internal/models/db_models"
	"tripvote/internal/repositories"
	"tripvote/pkg/utils"
)

// Planner produces candidate pools and day plans from the places provider.
// It holds no per-trip state; every call builds its profile from storage.
type Planner struct {
	places PlacesProvider
	cfg    config.PlannerConfig
	log    *zap.Logger
}

func NewPlanner(places PlacesProvider, cfg config.PlannerConfig, log *zap.Logger) *Planner {
	return &Planner{places: places, cfg: cfg, log: log}
}

// profileFor builds the profile of group from the stored member preferences.
// Members without a row count toward the group with no tags.
func profileFor(members []db_models.Member, group []string) GroupProfile {
	byName := make(map[string][]string, len(members))
	for _, m := range members {
		byName[m.Username] = m.Preferences
	}
	prefs := make([]MemberPreferences, 0, len(group))
	for _, u := range group {
		prefs = append(prefs, MemberPreferences{Username: u, Tags: byName[u]})
	}
	return BuildGroupProfile(prefs)
}

// InitialCandidates ranks the places around the trip destination for day one.
func (p *Planner) InitialCandidates(ctx context.Context, dest *PlaceDetails, profile GroupProfile, date time.Time) ([]RankedDestination, error) {
	nearby, err := p.places.SearchNearby(ctx, dest.Lat, dest.Lon, p.cfg.SearchRadiusMeters, p.cfg.MaxNearbyResults, DefaultExcludedTypes)
	if err != nil {
		return nil, err
	}
	ranked := RankDestinations(profile, nearby, nil)
	selected, err := SelectOpen(ctx, p.places, ranked, date, p.cfg.CandidatesPerDay)
	if err != nil {
		return nil, err
	}
	if err := p.describe(ctx, selected); err != nil {
		return nil, placesErr(err)
	}
	return selected, nil
}

// describe copies the summary and photo of each shortlisted destination from
// its details.
func (p *Planner) describe(ctx context.Context, ranked []RankedDestination) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxOpenChecks)
	for i := range ranked {
		g.Go(func() error {
			d, err := p.places.GetDetails(gctx, ranked[i].ID)
			if err != nil {
				return err
			}
			ranked[i].Summary = d.Summary
			ranked[i].PhotoURL = d.PhotoURL
			return nil
		})
	}
	return g.Wait()
}

// placesErr reports a place that vanished upstream while planning as an
// upstream failure.
func placesErr(err error) error {
	if errors.Is(err, utils.ErrPlaceNotFound) {
		return fmt.Errorf("%w: %v", utils.ErrUpstreamUnavailable, err)
	}
	return err
}

// Progress builds the activities of a day that resolved to chosenID and, if
// the trip has a following day, opens it for voting with a fresh pool. It
// must run on a transaction-scoped repository. It returns the number of the
// day that entered voting, or 0.
func (p *Planner) Progress(ctx context.Context, repo repositories.TripRepository, trip *db_models.Trip, day *db_models.TripDay, chosenID string) (int, error) {
	chosen, err := p.places.GetDetails(ctx, chosenID)
	if err != nil {
		return 0, placesErr(err)
	}

	nearby, err := p.places.SearchNearby(ctx, chosen.Lat, chosen.Lon, p.cfg.ActivityRadiusMeters, p.cfg.MaxNearbyResults, DefaultExcludedTypes)
	if err != nil {
		return 0, placesErr(err)
	}

	group := trip.Usernames()
	members, err := repo.GetMembers(ctx, group)
	if err != nil {
		return 0, dbError(err)
	}
	profile := profileFor(members, group)

	used, err := repo.ListTripActivityDestinationIDs(ctx, trip.ID)
	if err != nil {
		return 0, dbError(err)
	}
	ranked := RankDestinations(profile, nearby, append(used, chosenID))

	extras, err := SelectOpen(ctx, p.places, ranked, day.Date, p.cfg.ActivitiesPerDay-1)
	if err != nil {
		return 0, placesErr(err)
	}

	planned := make([]string, 0, len(extras)+1)
	planned = append(planned, chosenID)
	for _, e := range extras {
		planned = append(planned, e.ID)
	}

	activities, err := p.buildActivities(ctx, day, planned)
	if err != nil {
		return 0, placesErr(err)
	}
	if err := repo.CreateActivities(ctx, activities); err != nil {
		return 0, dbError(err)
	}

	if day.DayNumber >= trip.Duration {
		p.log.Info("trip fully planned", zap.String("trip_id", trip.ID.String()))
		return 0, nil
	}

	next, err := repo.GetDay(ctx, trip.ID, day.DayNumber+1)
	if err != nil {
		return 0, dbError(err)
	}
	if next == nil {
		return 0, fmt.Errorf("%w: day %d missing", utils.ErrTripDayNotFound, day.DayNumber+1)
	}

	remaining := excludeRanked(ranked, planned)
	candidates, err := SelectOpen(ctx, p.places, remaining, next.Date, p.cfg.CandidatesPerDay)
	if err != nil {
		return 0, placesErr(err)
	}
	if err := p.describe(ctx, candidates); err != nil {
		return 0, placesErr(err)
	}

	started, err := newDayMachine(repo, p.log).beginVoting(ctx, next, group, candidates)
	if err != nil {
		return 0, err
	}
	if !started {
		p.log.Warn("next day was not pending",
			zap.String("trip_id", trip.ID.String()),
			zap.Int("day", next.DayNumber),
			zap.String("status", string(next.Status)))
		return 0, nil
	}
	return next.DayNumber, nil
}

// buildActivities fetches details for each planned destination and lays
// them out in order with a time-of-day period.
func (p *Planner) buildActivities(ctx context.Context, day *db_models.TripDay, planned []string) ([]db_models.Activity, error) {
	details := make([]*PlaceDetails, len(planned))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxOpenChecks)
	for i, id := range planned {
		g.Go(func() error {
			d, err := p.places.GetDetails(gctx, id)
			if err != nil {
				return err
			}
			details[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	activities := make([]db_models.Activity, 0, len(planned))
	for i, d := range details {
		position := i + 1
		period, fromHours := hoursPeriod(d.OpeningHours, day.Date)
		if !fromHours {
			period = positionPeriod(position)
		}
		activities = append(activities, db_models.Activity{
			TripDayID:       day.ID,
			DestinationID:   planned[i],
			Name:            d.Name,
			Summary:         d.Summary,
			PhotoURL:        d.PhotoURL,
			Latitude:        d.Lat,
			Longitude:       d.Lon,
			Position:        position,
			Period:          period,
			PeriodFromHours: fromHours,
		})
	}
	return activities, nil
}
