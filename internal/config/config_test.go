package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CANDIDATES_PER_DAY", "")
	t.Setenv("PLACES_BASE_URL", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 6, cfg.Planner.CandidatesPerDay)
	assert.Equal(t, 5, cfg.Planner.ActivitiesPerDay)
	assert.Equal(t, 8000.0, cfg.Planner.SearchRadiusMeters)
	assert.Equal(t, 3000.0, cfg.Planner.ActivityRadiusMeters)
	assert.Equal(t, "https://places.googleapis.com", cfg.Places.BaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CANDIDATES_PER_DAY", "4")
	t.Setenv("PLACES_CACHE_TTL", "30m")
	t.Setenv("PLACES_BASE_URL", "http://localhost:9999/")
	t.Setenv("SEARCH_RADIUS_METERS", "1500.5")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 4, cfg.Planner.CandidatesPerDay)
	assert.Equal(t, 30*time.Minute, cfg.Places.CacheTTL)
	assert.Equal(t, "http://localhost:9999", cfg.Places.BaseURL)
	assert.Equal(t, 1500.5, cfg.Planner.SearchRadiusMeters)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("CANDIDATES_PER_DAY", "six")
	t.Setenv("TOKEN_TTL", "forever")

	cfg := Load()

	assert.Equal(t, 6, cfg.Planner.CandidatesPerDay)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
}
