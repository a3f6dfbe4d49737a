package places_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"tripvote/internal/config"
	"tripvote/internal/services"
	mem "tripvote/pkg/memcache"
)

var Module = fx.Provide(providePlacesProvider, services.NewPlanner)

func providePlacesProvider(cfg config.Config, cache *mem.Store[*services.PlaceDetails], log *zap.Logger) services.PlacesProvider {
	return services.NewGooglePlacesClient(cfg.Places, cache, log.Named("places"))
}
