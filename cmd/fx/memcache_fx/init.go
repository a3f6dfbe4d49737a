package memcache_fx

import (
	"time"

	"go.uber.org/fx"
	"tripvote/internal/config"
	"tripvote/internal/services"
	"tripvote/pkg/keylock"
	mem "tripvote/pkg/memcache"
)

const matrixCacheTTL = 7 * 24 * time.Hour

var Module = fx.Provide(provideDetailsCache, provideMatrixCache, keylock.New)

func provideDetailsCache(cfg config.Config) *mem.Store[*services.PlaceDetails] {
	return mem.NewStore[*services.PlaceDetails](cfg.Places.CacheTTL)
}

func provideMatrixCache() *mem.Store[services.MatrixEdge] {
	return mem.NewStore[services.MatrixEdge](matrixCacheTTL)
}
