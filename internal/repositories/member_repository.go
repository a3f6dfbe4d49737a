package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	dbm "tripvote/internal/models/db_models"
)

type MemberRepository interface {
	Insert(ctx context.Context, member *dbm.Member) error
	FindByUsername(ctx context.Context, username string) (*dbm.Member, error)
	FindByEmail(ctx context.Context, email string) (*dbm.Member, error)
	FindByUsernames(ctx context.Context, usernames []string) ([]dbm.Member, error)
	UpdatePreferences(ctx context.Context, username string, preferences dbm.StringList) error
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (m *memberRepository) Insert(ctx context.Context, member *dbm.Member) error {
	return m.db.WithContext(ctx).Create(member).Error
}

func (m *memberRepository) FindByUsername(ctx context.Context, username string) (*dbm.Member, error) {
	var member dbm.Member
	err := m.db.WithContext(ctx).First(&member, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (m *memberRepository) FindByEmail(ctx context.Context, email string) (*dbm.Member, error) {
	var member dbm.Member
	err := m.db.WithContext(ctx).First(&member, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (m *memberRepository) FindByUsernames(ctx context.Context, usernames []string) ([]dbm.Member, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	var members []dbm.Member
	err := m.db.WithContext(ctx).
		Where("username IN ?", usernames).
		Order("username ASC").
		Find(&members).Error
	return members, err
}

func (m *memberRepository) UpdatePreferences(ctx context.Context, username string, preferences dbm.StringList) error {
	res := m.db.WithContext(ctx).
		Model(&dbm.Member{}).
		Where("username = ?", username).
		Update("preferences", preferences)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
