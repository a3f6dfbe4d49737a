package distance_matrix_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"tripvote/internal/config"
	"tripvote/internal/services"
	mem "tripvote/pkg/memcache"
)

var Module = fx.Provide(provideMatrixService)

func provideMatrixService(cfg config.Config, cache *mem.Store[services.MatrixEdge], log *zap.Logger) services.DistanceMatrixService {
	return services.NewMapboxMatrixClient(cfg.MapboxAccessToken, cache, log.Named("mapbox"))
}
