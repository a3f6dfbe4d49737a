package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileOf(tags ...string) GroupProfile {
	p := GroupProfile{Size: 1, Support: map[string]float64{}}
	for _, t := range tags {
		p.Support[t] = 1.0
	}
	return p
}

func ids(ranked []RankedDestination) []string {
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.ID)
	}
	return out
}

func TestRankByMatchCountStable(t *testing.T) {
	pool := []Place{
		{ID: "p1", Categories: []string{"park"}},
		{ID: "p2", Categories: []string{"museum", "park", "cafe"}},
		{ID: "p3", Categories: []string{"gym"}},
		{ID: "p4", Categories: []string{"museum,park"}},
		{ID: "p5", Categories: []string{"cafe"}},
		{ID: "p1", Categories: []string{"museum", "park"}},
	}

	ranked := RankDestinations(profileOf("museum", "park"), pool, nil)

	assert.Equal(t, []string{"p2", "p4", "p1"}, ids(ranked))
	assert.Equal(t, 2, ranked[0].MatchCount)
	assert.Equal(t, 1, ranked[2].MatchCount)
}

func TestRankExcludes(t *testing.T) {
	pool := []Place{
		{ID: "a", Categories: []string{"park"}},
		{ID: "b", Categories: []string{"park"}},
	}
	profile := profileOf("park")

	assert.Equal(t, []string{"b"}, ids(RankDestinations(profile, pool, []string{"a"})))
	assert.Empty(t, RankDestinations(profile, pool, []string{"a", "b"}))
	assert.Empty(t, RankDestinations(GroupProfile{}, pool, nil))
}

type openStub struct {
	mu     sync.Mutex
	closed map[string]bool
	err    error
	calls  int
}

func (o *openStub) IsOpen(_ context.Context, id string, _ time.Time) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	if o.err != nil {
		return false, o.err
	}
	return !o.closed[id], nil
}

func TestSelectOpenKeepsOrderAndLimit(t *testing.T) {
	ranked := []RankedDestination{
		{Place: Place{ID: "a"}}, {Place: Place{ID: "b"}}, {Place: Place{ID: "c"}},
		{Place: Place{ID: "d"}}, {Place: Place{ID: "e"}},
	}
	stub := &openStub{closed: map[string]bool{"b": true}}

	out, err := SelectOpen(context.Background(), stub, ranked, time.Now(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d"}, ids(out))

	stub.closed = map[string]bool{"a": true, "b": true, "c": true, "d": true, "e": true}
	out, err = SelectOpen(context.Background(), stub, ranked, time.Now(), 3)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSelectOpenPropagatesErrors(t *testing.T) {
	stub := &openStub{err: errors.New("upstream down")}
	_, err := SelectOpen(context.Background(), stub, []RankedDestination{{Place: Place{ID: "a"}}}, time.Now(), 6)
	assert.Error(t, err)
}
