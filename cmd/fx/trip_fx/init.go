package trip_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"tripvote/internal/repositories"
	"tripvote/internal/services"
)

var Module = fx.Provide(provideTripRepo, services.NewTripService, services.NewVoteService)

func provideTripRepo(db *gorm.DB) repositories.TripRepository {
	return repositories.NewTripRepository(db)
}
