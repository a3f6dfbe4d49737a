package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"tripvote/internal/models/db_models"
	"tripvote/internal/models/request_models"
	"tripvote/internal/models/response_models"
	"tripvote/internal/repositories"
	"tripvote/pkg/utils"
)

type MemberServiceInterface interface {
	Register(ctx context.Context, request request_models.RegisterRequest) (*response_models.MemberResponse, error)
	Login(ctx context.Context, request request_models.LoginRequest) (string, error)
	GetMember(ctx context.Context, username string) (*response_models.MemberResponse, error)
	UpdatePreferences(ctx context.Context, username string, request request_models.UpdatePreferencesRequest) (*response_models.MemberResponse, error)
}

type MemberService struct {
	memberRepo repositories.MemberRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
	log        *zap.Logger
}

func NewMemberService(memberRepo repositories.MemberRepository, jwtSecret []byte, tokenTTL time.Duration, log *zap.Logger) MemberServiceInterface {
	return &MemberService{
		memberRepo: memberRepo,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		log:        log,
	}
}

func (m *MemberService) Register(ctx context.Context, request request_models.RegisterRequest) (*response_models.MemberResponse, error) {
	username := strings.TrimSpace(request.Username)
	email := strings.ToLower(strings.TrimSpace(request.Email))
	if username == "" || email == "" || request.Password == "" {
		return nil, utils.ErrInvalidInput
	}

	existing, err := m.memberRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, dbError(err)
	}
	if existing != nil {
		return nil, utils.ErrUsernameTaken
	}
	existing, err = m.memberRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, dbError(err)
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashed, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	member := &db_models.Member{
		Username:     username,
		Email:        email,
		DisplayName:  request.DisplayName,
		PasswordHash: hashed,
		Preferences:  db_models.StringList(NormalizeTags(request.Preferences)),
	}
	if err := m.memberRepo.Insert(ctx, member); err != nil {
		return nil, dbError(err)
	}

	m.log.Info("member registered", zap.String("username", username))
	return toMemberResponse(member), nil
}

func (m *MemberService) Login(ctx context.Context, request request_models.LoginRequest) (string, error) {
	member, err := m.memberRepo.FindByUsername(ctx, strings.TrimSpace(request.Username))
	if err != nil {
		return "", dbError(err)
	}
	if member == nil {
		return "", utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(member.PasswordHash, request.Password); err != nil {
		return "", utils.ErrInvalidCredentials
	}
	return utils.CreateToken(m.jwtSecret, member.Username, m.tokenTTL)
}

func (m *MemberService) GetMember(ctx context.Context, username string) (*response_models.MemberResponse, error) {
	member, err := m.memberRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, dbError(err)
	}
	if member == nil {
		return nil, utils.ErrMemberNotFound
	}
	return toMemberResponse(member), nil
}

// UpdatePreferences replaces the member's preference tags. Trips already in
// progress pick the change up the next time a candidate pool is built.
func (m *MemberService) UpdatePreferences(ctx context.Context, username string, request request_models.UpdatePreferencesRequest) (*response_models.MemberResponse, error) {
	tags := db_models.StringList(NormalizeTags(request.Preferences))
	if err := m.memberRepo.UpdatePreferences(ctx, username, tags); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrMemberNotFound
		}
		return nil, dbError(err)
	}
	return m.GetMember(ctx, username)
}

func toMemberResponse(member *db_models.Member) *response_models.MemberResponse {
	prefs := []string(member.Preferences)
	if prefs == nil {
		prefs = []string{}
	}
	return &response_models.MemberResponse{
		Username:    member.Username,
		Email:       member.Email,
		DisplayName: member.DisplayName,
		Preferences: prefs,
	}
}
