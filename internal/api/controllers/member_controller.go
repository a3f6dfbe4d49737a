package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"tripvote/internal/models/request_models"
	"tripvote/internal/models/response_models"
	"tripvote/internal/services"
	"tripvote/pkg/middleware"
	"tripvote/pkg/utils"
)

type MemberController struct {
	memberService services.MemberServiceInterface
	log           *zap.Logger
}

func NewMemberController(memberService services.MemberServiceInterface, log *zap.Logger) *MemberController {
	return &MemberController{
		memberService: memberService,
		log:           log,
	}
}

// Register godoc
// @Summary Register a new member
// @Tags Members
// @Accept json
// @Produce json
// @Param request body request_models.RegisterRequest true "Registration payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /members/register [post]
func (m *MemberController) Register(c *gin.Context) {
	var req request_models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	member, err := m.memberService.Register(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, m.log, err)
		return
	}

	utils.RespondStatus(c, http.StatusCreated, member, "Member registered successfully")
}

// Login godoc
// @Summary Login and receive a bearer token
// @Tags Members
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /members/login [post]
func (m *MemberController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	token, err := m.memberService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, m.log, err)
		return
	}

	utils.RespondSuccess(c, response_models.LoginResponse{Token: token}, "Login successful")
}

func (m *MemberController) Me(c *gin.Context) {
	member, err := m.memberService.GetMember(c.Request.Context(), c.GetString(middleware.UsernameKey))
	if err != nil {
		utils.HandleServiceError(c, m.log, err)
		return
	}
	utils.RespondSuccess(c, member, "")
}

// UpdatePreferences godoc
// @Summary Replace the caller's preference tags
// @Tags Members
// @Accept json
// @Produce json
// @Param request body request_models.UpdatePreferencesRequest true "Preference tags"
// @Success 200 {object} utils.APIResponse
// @Router /members/preferences [patch]
func (m *MemberController) UpdatePreferences(c *gin.Context) {
	var req request_models.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	member, err := m.memberService.UpdatePreferences(c.Request.Context(), c.GetString(middleware.UsernameKey), req)
	if err != nil {
		utils.HandleServiceError(c, m.log, err)
		return
	}

	utils.RespondSuccess(c, member, "Preferences updated")
}
