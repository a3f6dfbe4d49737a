package utils

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidDateRange   = errors.New("end date must not be before start date")
	ErrTripTooLong        = errors.New("trip exceeds the maximum number of days")
	ErrScoreOutOfRange    = errors.New("score must be between 0 and 10")
	ErrEmptyBallot        = errors.New("ballot contains no scores")
	ErrUnknownCandidate   = errors.New("destination is not a candidate for this day")
	ErrDayNotVoting       = errors.New("day is not open for voting")
	ErrAlreadyVoted       = errors.New("member has already voted for this day")
	ErrDayNotComplete     = errors.New("day has not finished voting")
	ErrConsensusResolved  = errors.New("day already has a chosen destination")
	ErrInvalidActivityPos = errors.New("activity position out of range")
	ErrDestinationPlanned = errors.New("destination is already planned on this trip")

	ErrNotTripOwner = errors.New("only the trip owner can do this")

	ErrTripNotFound     = errors.New("trip not found")
	ErrTripDayNotFound  = errors.New("trip day not found")
	ErrMemberNotFound   = errors.New("member not found")
	ErrNotTripMember    = errors.New("member is not part of this trip")
	ErrActivityNotFound = errors.New("activity not found")
	ErrPlaceNotFound    = errors.New("place not found")

	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailAlreadyExists = errors.New("email already exists")

	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrUpstreamUnavailable = errors.New("places provider unavailable")

	ErrDatabaseError     = errors.New("database error")
	ErrIllegalTransition = errors.New("illegal day status transition")
)

type errorMapping struct {
	err    error
	status int
	reason string
}

// Order matters: the first match wins.
var errorTable = []errorMapping{
	{ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{ErrInvalidDateRange, http.StatusBadRequest, "invalid_date_range"},
	{ErrTripTooLong, http.StatusBadRequest, "trip_too_long"},
	{ErrScoreOutOfRange, http.StatusBadRequest, "score_out_of_range"},
	{ErrEmptyBallot, http.StatusBadRequest, "empty_ballot"},
	{ErrUnknownCandidate, http.StatusBadRequest, "unknown_candidate"},
	{ErrDayNotVoting, http.StatusBadRequest, "day_not_voting"},
	{ErrAlreadyVoted, http.StatusBadRequest, "already_voted"},
	{ErrDayNotComplete, http.StatusBadRequest, "day_not_complete"},
	{ErrConsensusResolved, http.StatusBadRequest, "already_resolved"},
	{ErrInvalidActivityPos, http.StatusBadRequest, "invalid_activity_order"},
	{ErrDestinationPlanned, http.StatusBadRequest, "destination_already_planned"},
	{ErrNotTripOwner, http.StatusForbidden, "not_trip_owner"},
	{ErrTripNotFound, http.StatusNotFound, "trip_not_found"},
	{ErrTripDayNotFound, http.StatusNotFound, "trip_day_not_found"},
	{ErrMemberNotFound, http.StatusNotFound, "member_not_found"},
	{ErrNotTripMember, http.StatusNotFound, "not_trip_member"},
	{ErrActivityNotFound, http.StatusNotFound, "activity_not_found"},
	{ErrPlaceNotFound, http.StatusNotFound, "place_not_found"},
	{ErrUsernameTaken, http.StatusConflict, "username_taken"},
	{ErrEmailAlreadyExists, http.StatusConflict, "email_taken"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{ErrUpstreamUnavailable, http.StatusBadGateway, "upstream_unavailable"},
	{ErrDatabaseError, http.StatusInternalServerError, "internal_error"},
	{ErrIllegalTransition, http.StatusInternalServerError, "internal_error"},
}

// Classify maps an error to its HTTP status and reason code.
// Unknown errors are reported as internal errors.
func Classify(err error) (int, string) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.status, m.reason
		}
	}
	return http.StatusInternalServerError, "internal_error"
}
