package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"tripvote/internal/models/request_models"
	"tripvote/internal/services"
	"tripvote/pkg/middleware"
	"tripvote/pkg/utils"
)

type TripController struct {
	tripService services.TripServiceInterface
	voteService services.VoteServiceInterface
	log         *zap.Logger
}

func NewTripController(tripService services.TripServiceInterface, voteService services.VoteServiceInterface, log *zap.Logger) *TripController {
	return &TripController{
		tripService: tripService,
		voteService: voteService,
		log:         log,
	}
}

func dayNumberParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("dayNumber"))
	if err != nil || n < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Day number must be a positive integer")
		return 0, false
	}
	return n, true
}

// CreateTrip godoc
// @Summary Create a trip and open day one for voting
// @Tags Trips
// @Accept json
// @Produce json
// @Param request body request_models.CreateTripRequest true "Trip payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /trips [post]
func (t *TripController) CreateTrip(c *gin.Context) {
	var req request_models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	trip, err := t.tripService.CreateTrip(c.Request.Context(), c.GetString(middleware.UsernameKey), req)
	if err != nil {
		utils.HandleServiceError(c, t.log, err)
		return
	}

	utils.RespondStatus(c, http.StatusCreated, trip, "Trip created successfully")
}

func (t *TripController) ListTrips(c *gin.Context) {
	trips, err := t.tripService.ListTrips(c.Request.Context(), c.GetString(middleware.UsernameKey))
	if err != nil {
		utils.HandleServiceError(c, t.log, err)
		return
	}
	utils.RespondSuccess(c, trips, "")
}

// GetDayStatus godoc
// @Summary Planning state of one trip day
// @Tags Trips
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param dayNumber path int true "Day number"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /trips/{tripId}/days/{dayNumber} [get]
func (t *TripController) GetDayStatus(c *gin.Context) {
	day, ok := dayNumberParam(c)
	if !ok {
		return
	}

	view, err := t.tripService.GetDayStatus(c.Request.Context(), c.Param("tripId"), day, c.GetString(middleware.UsernameKey))
	if err != nil {
		utils.HandleServiceError(c, t.log, err)
		return
	}
	utils.RespondSuccess(c, view, "")
}

// SubmitVote godoc
// @Summary Score the candidates of a voting day
// @Tags Trips
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param dayNumber path int true "Day number"
// @Param request body request_models.SubmitVoteRequest true "Scores by destination id"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /trips/{tripId}/days/{dayNumber}/votes [patch]
func (t *TripController) SubmitVote(c *gin.Context) {
	day, ok := dayNumberParam(c)
	if !ok {
		return
	}
	var req request_models.SubmitVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	result, err := t.voteService.SubmitVote(c.Request.Context(), c.Param("tripId"), day, c.GetString(middleware.UsernameKey), req.Scores)
	if err != nil {
		utils.HandleServiceError(c, t.log, err)
		return
	}
	utils.RespondSuccess(c, result, "Vote recorded")
}

func (t *TripController) ResolveDay(c *gin.Context) {
	day, ok := dayNumberParam(c)
	if !ok {
		return
	}
	var req request_models.ResolveDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	view, err := t.tripService.ResolveDay(c.Request.Context(), c.Param("tripId"), day, c.GetString(middleware.UsernameKey), req)
	if err != nil {
		utils.HandleServiceError(c, t.log, err)
		return
	}
	utils.RespondSuccess(c, view, "Day resolved")
}

func (t *TripController) MoveActivity(c *gin.Context) {
	day, ok := dayNumberParam(c)
	if !ok {
		return
	}
	var req request_models.MoveActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	view, err := t.tripService.MoveActivity(c.Request.Context(), c.Param("tripId"), day, c.GetString(middleware.UsernameKey), req)
	if err != nil {
		utils.HandleServiceError(c, t.log, err)
		return
	}
	utils.RespondSuccess(c, view, "Activity moved")
}

// RecordView godoc
// @Summary Remember that the caller opened a trip
// @Tags Members
// @Accept json
// @Produce json
// @Param request body request_models.RecordTripViewRequest true "Viewed trip"
// @Success 201 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /members/me/recently-viewed [post]
func (t *TripController) RecordView(c *gin.Context) {
	var req request_models.RecordTripViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := t.tripService.RecordView(c.Request.Context(), req.TripID, c.GetString(middleware.UsernameKey)); err != nil {
		utils.HandleServiceError(c, t.log, err)
		return
	}
	utils.RespondStatus(c, http.StatusCreated, gin.H{"trip_id": req.TripID}, "View recorded")
}

// RecentlyViewed godoc
// @Summary The caller's three most recently opened trips
// @Tags Members
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /members/me/recently-viewed [get]
func (t *TripController) RecentlyViewed(c *gin.Context) {
	views, err := t.tripService.RecentlyViewed(c.Request.Context(), c.GetString(middleware.UsernameKey))
	if err != nil {
		utils.HandleServiceError(c, t.log, err)
		return
	}
	utils.RespondSuccess(c, views, "Recently viewed trips")
}
