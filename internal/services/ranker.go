package services

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// Place is a destination as returned by a nearby search. Summary and
// PhotoURL are filled from its details once it is shortlisted.
type Place struct {
	ID         string
	Name       string
	Categories []string
	Summary    string
	PhotoURL   string
}

type RankedDestination struct {
	Place
	MatchCount int
}

type OpenChecker interface {
	IsOpen(ctx context.Context, placeID string, date time.Time) (bool, error)
}

// RankDestinations scores each pool destination by how many of its distinct
// categories appear in the profile. Excluded and non-matching destinations
// are dropped. Ties keep pool order. An empty profile matches nothing.
func RankDestinations(profile GroupProfile, pool []Place, exclude []string) []RankedDestination {
	if profile.IsEmpty() || len(pool) == 0 {
		return nil
	}

	skip := make(map[string]struct{}, len(exclude)+len(pool))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	ranked := make([]RankedDestination, 0, len(pool))
	for _, p := range pool {
		if p.ID == "" {
			continue
		}
		if _, ok := skip[p.ID]; ok {
			continue
		}
		// first occurrence wins for duplicated ids
		skip[p.ID] = struct{}{}

		tags := NormalizeTags(p.Categories)
		matches := 0
		for _, t := range tags {
			if profile.Contains(t) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}
		ranked = append(ranked, RankedDestination{
			Place:      Place{ID: p.ID, Name: p.Name, Categories: tags},
			MatchCount: matches,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchCount > ranked[j].MatchCount
	})
	return ranked
}

// maxOpenChecks bounds concurrent open-hours lookups.
const maxOpenChecks = 4

// SelectOpen returns, in ranked order, up to limit destinations that are
// open on date. Lookups run concurrently. Any lookup error fails the call.
func SelectOpen(ctx context.Context, checker OpenChecker, ranked []RankedDestination, date time.Time, limit int) ([]RankedDestination, error) {
	if limit <= 0 || len(ranked) == 0 {
		return nil, nil
	}

	open := make([]bool, len(ranked))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxOpenChecks)
	for i := range ranked {
		g.Go(func() error {
			ok, err := checker.IsOpen(gctx, ranked[i].ID, date)
			if err != nil {
				return err
			}
			open[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]RankedDestination, 0, limit)
	for i, r := range ranked {
		if !open[i] {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func excludeRanked(ranked []RankedDestination, ids []string) []RankedDestination {
	if len(ids) == 0 {
		return ranked
	}
	skip := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		skip[id] = struct{}{}
	}
	out := make([]RankedDestination, 0, len(ranked))
	for _, r := range ranked {
		if _, ok := skip[r.ID]; !ok {
			out = append(out, r)
		}
	}
	return out
}
