package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"tripvote/pkg/utils"
)

// fakePlaces serves one fixed pool for every nearby search.
type fakePlaces struct {
	mu          sync.Mutex
	pool        []Place
	details     map[string]*PlaceDetails
	closed      map[string]bool
	failDetails bool
	searches    int
}

func newFakePlaces(n int) *fakePlaces {
	f := &fakePlaces{details: map[string]*PlaceDetails{}, closed: map[string]bool{}}
	f.details["root"] = &PlaceDetails{ID: "root", Name: "Old Town", Lat: 10, Lon: 106}
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("p%02d", i)
		cats := []string{"park"}
		if i%2 == 0 {
			cats = []string{"museum", "park"}
		}
		f.pool = append(f.pool, Place{ID: id, Name: "Place " + id, Categories: cats})
		f.details[id] = &PlaceDetails{
			ID:         id,
			Name:       "Place " + id,
			Categories: cats,
			Lat:        10 + float64(i)/100,
			Lon:        106,
			Summary:    "About " + id,
			PhotoURL:   "https://photos.example.com/" + id,
		}
	}
	return f
}

func (f *fakePlaces) SearchNearby(_ context.Context, _, _, _ float64, maxResults int, _ []string) ([]Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	out := append([]Place(nil), f.pool...)
	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}

func (f *fakePlaces) GetDetails(_ context.Context, id string) (*PlaceDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDetails {
		return nil, fmt.Errorf("%w: fake outage", utils.ErrUpstreamUnavailable)
	}
	d, ok := f.details[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", utils.ErrPlaceNotFound, id)
	}
	return d, nil
}

func (f *fakePlaces) IsOpen(_ context.Context, id string, _ time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.closed[id], nil
}

// dropDetails makes id unknown to detail lookups while it stays in searches.
func (f *fakePlaces) dropDetails(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.details, id)
}

func (f *fakePlaces) setHours(id string, hours *OpeningHours) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := *f.details[id]
	d.OpeningHours = hours
	f.details[id] = &d
}

func (f *fakePlaces) setFailDetails(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failDetails = v
}

func mustUUID(t *testing.T, raw string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(raw)
	require.NoError(t, err)
	return id
}
