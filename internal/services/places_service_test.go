package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"tripvote/internal/config"
	"tripvote/pkg/memcache"
	"tripvote/pkg/utils"
)

func setupTestPlacesClient(t *testing.T, handler http.HandlerFunc) *GooglePlacesClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.PlacesConfig{
		APIKey:            "test-key",
		BaseURL:           srv.URL,
		RequestsPerSecond: 1000,
		Burst:             10,
		Timeout:           5 * time.Second,
	}
	return NewGooglePlacesClient(cfg, memcache.NewStore[*PlaceDetails](time.Minute), zap.NewNop())
}

func TestSearchNearbySendsGoogleRequest(t *testing.T) {
	client := setupTestPlacesClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/places:searchNearby", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.Equal(t, "places.id,places.displayName,places.types", r.Header.Get("X-Goog-FieldMask"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 20, body["maxResultCount"])
		circle := body["locationRestriction"].(map[string]interface{})["circle"].(map[string]interface{})
		assert.EqualValues(t, 3000, circle["radius"])

		_, _ = w.Write([]byte(`{"places":[
			{"id":"p1","displayName":{"text":"Museum"},"types":["museum","tourist_attraction"]},
			{"displayName":{"text":"no id"}},
			{"id":"p2","displayName":{"text":"Park"},"types":["park"]}
		]}`))
	})

	places, err := client.SearchNearby(t.Context(), 10.7, 106.7, 3000, 20, DefaultExcludedTypes)
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "p1", places[0].ID)
	assert.Equal(t, "Museum", places[0].Name)
	assert.Equal(t, []string{"museum", "tourist_attraction"}, places[0].Categories)
}

func TestGetDetailsIsCached(t *testing.T) {
	var calls atomic.Int32
	client := setupTestPlacesClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1/places/p1", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"p1","displayName":{"text":"Museum"},"types":["museum"],
			"location":{"latitude":10.5,"longitude":106.5},
			"regularOpeningHours":{"periods":[{"open":{"day":1,"hour":9,"minute":0},"close":{"day":1,"hour":17,"minute":0}}]}}`))
	})

	d, err := client.GetDetails(t.Context(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 10.5, d.Lat)
	assert.Equal(t, 106.5, d.Lon)
	require.NotNil(t, d.OpeningHours)

	monday := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	open, err := client.IsOpen(t.Context(), "p1", monday)
	require.NoError(t, err)
	assert.True(t, open)
	open, err = client.IsOpen(t.Context(), "p1", monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, open)

	assert.EqualValues(t, 1, calls.Load())
}

func TestPlacesErrorsAreUpstream(t *testing.T) {
	client := setupTestPlacesClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/missing"):
			w.WriteHeader(http.StatusNotFound)
		case strings.HasSuffix(r.URL.Path, "/garbled"):
			_, _ = w.Write([]byte(`{not json`))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})

	_, err := client.GetDetails(t.Context(), "missing")
	assert.ErrorIs(t, err, utils.ErrPlaceNotFound)

	_, err = client.GetDetails(t.Context(), "garbled")
	assert.ErrorIs(t, err, utils.ErrUpstreamUnavailable)

	_, err = client.SearchNearby(t.Context(), 0, 0, 100, 5, nil)
	assert.ErrorIs(t, err, utils.ErrUpstreamUnavailable)
}

func TestGetDetailsResolvesPhotoAndSummary(t *testing.T) {
	client := setupTestPlacesClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/places/p1":
			assert.Contains(t, r.Header.Get("X-Goog-FieldMask"), "editorialSummary")
			assert.Contains(t, r.Header.Get("X-Goog-FieldMask"), "photos")
			_, _ = w.Write([]byte(`{"id":"p1","displayName":{"text":"Museum"},
				"editorialSummary":{"text":"Art under one roof."},
				"photos":[{"name":"places/p1/photos/a1"},{"name":"places/p1/photos/a2"}]}`))
		case "/v1/places/p1/photos/a1/media":
			assert.Empty(t, r.Header.Get("X-Goog-FieldMask"))
			assert.Equal(t, "true", r.URL.Query().Get("skipHttpRedirect"))
			assert.Equal(t, "800", r.URL.Query().Get("maxWidthPx"))
			_, _ = w.Write([]byte(`{"name":"places/p1/photos/a1/media","photoUri":"https://images.example.com/a1"}`))
		case "/v1/places/p2":
			_, _ = w.Write([]byte(`{"id":"p2","displayName":{"text":"Park"},"photos":[{"name":"places/p2/photos/b1"}]}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	d, err := client.GetDetails(t.Context(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Art under one roof.", d.Summary)
	assert.Equal(t, "https://images.example.com/a1", d.PhotoURL)

	// a broken photo lookup leaves the details usable
	d, err = client.GetDetails(t.Context(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "Park", d.Name)
	assert.Empty(t, d.PhotoURL)
	assert.Empty(t, d.Summary)
}
