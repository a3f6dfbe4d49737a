package member_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"tripvote/internal/config"
	"tripvote/internal/repositories"
	"tripvote/internal/services"
)

var Module = fx.Provide(provideMemberRepo, provideMemberService)

func provideMemberRepo(db *gorm.DB) repositories.MemberRepository {
	return repositories.NewMemberRepository(db)
}

func provideMemberService(memberRepo repositories.MemberRepository, cfg config.Config, log *zap.Logger) services.MemberServiceInterface {
	return services.NewMemberService(memberRepo, []byte(cfg.JWTSecret), cfg.TokenTTL, log)
}
