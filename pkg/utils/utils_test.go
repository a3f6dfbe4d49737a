package utils

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyWrappedErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		reason string
	}{
		{fmt.Errorf("%w: score 11", ErrScoreOutOfRange), http.StatusBadRequest, "score_out_of_range"},
		{fmt.Errorf("lookup: %w", ErrTripNotFound), http.StatusNotFound, "trip_not_found"},
		{fmt.Errorf("%w: %w", ErrUpstreamUnavailable, fmt.Errorf("status 503")), http.StatusBadGateway, "upstream_unavailable"},
		{fmt.Errorf("%w: p02", ErrDestinationPlanned), http.StatusBadRequest, "destination_already_planned"},
		{ErrNotTripOwner, http.StatusForbidden, "not_trip_owner"},
		{ErrUsernameTaken, http.StatusConflict, "username_taken"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		status, reason := Classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.reason, reason, tc.err.Error())
	}
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := CreateToken(secret, "alice", time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	_, err = ValidateToken([]byte("other-secret"), token)
	assert.Error(t, err)

	expired, err := CreateToken(secret, "alice", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(secret, expired)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.NoError(t, ComparePasswords(hash, "s3cret"))
	assert.Error(t, ComparePasswords(hash, "wrong"))
}

func TestDates(t *testing.T) {
	start, err := ParseDate("2026-03-30")
	require.NoError(t, err)
	end, err := ParseDate("2026-04-01")
	require.NoError(t, err)

	assert.Equal(t, 3, DaysInclusive(start, end))
	assert.Equal(t, 1, DaysInclusive(start, start))
	assert.Equal(t, "2026-03-31", FormatDate(DayDate(start, 2)))

	_, err = ParseDate("30/03/2026")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
