package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"tripvote/internal/models/request_models"
	"tripvote/internal/models/response_models"
	"tripvote/pkg/utils"
)

type stubTripService struct {
	created request_models.CreateTripRequest
	owner   string
	viewed  string
	err     error
}

func (s *stubTripService) CreateTrip(_ context.Context, owner string, req request_models.CreateTripRequest) (*response_models.TripResponse, error) {
	s.owner, s.created = owner, req
	if s.err != nil {
		return nil, s.err
	}
	return &response_models.TripResponse{ID: "trip-1", Owner: owner, Duration: 2}, nil
}

func (s *stubTripService) ListTrips(context.Context, string) ([]response_models.TripSummary, error) {
	return []response_models.TripSummary{}, s.err
}

func (s *stubTripService) GetDayStatus(_ context.Context, tripID string, day int, _ string) (*response_models.DayStatusResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &response_models.DayStatusResponse{TripID: tripID, DayNumber: day, Status: "pending"}, nil
}

func (s *stubTripService) ResolveDay(context.Context, string, int, string, request_models.ResolveDayRequest) (*response_models.DayStatusResponse, error) {
	return nil, s.err
}

func (s *stubTripService) MoveActivity(context.Context, string, int, string, request_models.MoveActivityRequest) (*response_models.DayStatusResponse, error) {
	return nil, s.err
}

func (s *stubTripService) RecordView(_ context.Context, tripID string, username string) error {
	s.viewed = username + ":" + tripID
	return s.err
}

func (s *stubTripService) RecentlyViewed(context.Context, string) ([]response_models.RecentTripView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []response_models.RecentTripView{{ViewedAt: "2026-06-01T10:00:00Z"}}, nil
}

type stubVoteService struct {
	scores map[string]int
	err    error
}

func (s *stubVoteService) SubmitVote(_ context.Context, tripID string, day int, _ string, scores map[string]int) (*response_models.VoteResult, error) {
	s.scores = scores
	if s.err != nil {
		return nil, s.err
	}
	return &response_models.VoteResult{TripID: tripID, DayNumber: day, Status: "voting", MembersVoted: 1, TotalMembers: 2}, nil
}

var testSecret = []byte("controller-secret")

func setupTestRouter(t *testing.T, trips *stubTripService, votes *stubVoteService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewRouter(zap.NewNop(), testSecret, NewMemberController(nil, zap.NewNop()), NewTripController(trips, votes, zap.NewNop()))
}

func authedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	token, err := utils.CreateToken(testSecret, "alice", time.Minute)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateTripUsesCaller(t *testing.T) {
	trips := &stubTripService{}
	r := setupTestRouter(t, trips, &stubVoteService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPost, "/trips", map[string]interface{}{
		"destination_id": "root", "start_date": "2026-06-01", "end_date": "2026-06-02", "companions": []string{"bob"},
	}))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "alice", trips.owner)
	assert.Equal(t, []string{"bob"}, trips.created.Companions)
	assert.NotEmpty(t, decode(t, w).TraceID)
}

func TestTripsRequireToken(t *testing.T) {
	r := setupTestRouter(t, &stubTripService{}, &stubVoteService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trips", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitVoteMapsErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		reason string
	}{
		{fmt.Errorf("%w: day 1 is pending", utils.ErrDayNotVoting), http.StatusBadRequest, "day_not_voting"},
		{utils.ErrAlreadyVoted, http.StatusBadRequest, "already_voted"},
		{utils.ErrTripNotFound, http.StatusNotFound, "trip_not_found"},
		{fmt.Errorf("%w: timeout", utils.ErrUpstreamUnavailable), http.StatusBadGateway, "upstream_unavailable"},
		{fmt.Errorf("%w: disk full", utils.ErrDatabaseError), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		votes := &stubVoteService{err: tc.err}
		r := setupTestRouter(t, &stubTripService{}, votes)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, authedRequest(t, http.MethodPatch, "/trips/abc/days/1/votes", map[string]interface{}{
			"scores": map[string]int{"p1": 7},
		}))

		assert.Equal(t, tc.status, w.Code, tc.reason)
		resp := decode(t, w)
		assert.Equal(t, tc.reason, resp.Reason)
		assert.Equal(t, "error", resp.Status)
		if tc.status == http.StatusInternalServerError {
			assert.NotContains(t, resp.Message, "disk full")
		}
	}
}

func TestSubmitVotePassesScores(t *testing.T) {
	votes := &stubVoteService{}
	r := setupTestRouter(t, &stubTripService{}, votes)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPatch, "/trips/abc/days/2/votes", map[string]interface{}{
		"scores": map[string]int{"p1": 7, "p2": 0},
	}))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]int{"p1": 7, "p2": 0}, votes.scores)
}

func TestDayNumberValidated(t *testing.T) {
	r := setupTestRouter(t, &stubTripService{}, &stubVoteService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodGet, "/trips/abc/days/zero", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodGet, "/trips/abc/days/3", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := setupTestRouter(t, &stubTripService{}, &stubVoteService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecentlyViewedRoutes(t *testing.T) {
	trips := &stubTripService{}
	r := setupTestRouter(t, trips, &stubVoteService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPost, "/members/me/recently-viewed", map[string]string{"trip_id": "trip-1"}))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "alice:trip-1", trips.viewed)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPost, "/members/me/recently-viewed", map[string]string{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodGet, "/members/me/recently-viewed", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	trips.err = utils.ErrNotTripMember
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPost, "/members/me/recently-viewed", map[string]string{"trip_id": "trip-2"}))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_trip_member", decode(t, w).Reason)
}
