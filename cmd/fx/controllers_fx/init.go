package controllers_fx

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"tripvote/internal/api/controllers"
	"tripvote/internal/config"
)

var Module = fx.Options(
	fx.Provide(controllers.NewMemberController),
	fx.Provide(controllers.NewTripController),
	fx.Provide(provideRouter),
)

func provideRouter(cfg config.Config, log *zap.Logger, members *controllers.MemberController, trips *controllers.TripController) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return controllers.NewRouter(log, []byte(cfg.JWTSecret), members, trips)
}
