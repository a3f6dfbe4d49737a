package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"tripvote/pkg/middleware"
)

// NewRouter builds the gin engine with the shared middleware chain and every
// route of the service.
func NewRouter(log *zap.Logger, jwtSecret []byte, members *MemberController, trips *TripController) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogger(log))

	RegisterRoutes(r, jwtSecret, members, trips)
	return r
}

func RegisterRoutes(r *gin.Engine, jwtSecret []byte, members *MemberController, trips *TripController) {
	auth := middleware.JWTAuthMiddleware(jwtSecret)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	memberGroup := r.Group("/members")
	memberGroup.POST("/register", members.Register)
	memberGroup.POST("/login", members.Login)
	memberGroup.GET("/me", auth, members.Me)
	memberGroup.PATCH("/preferences", auth, members.UpdatePreferences)
	memberGroup.POST("/me/recently-viewed", auth, trips.RecordView)
	memberGroup.GET("/me/recently-viewed", auth, trips.RecentlyViewed)

	tripGroup := r.Group("/trips", auth)
	tripGroup.POST("", trips.CreateTrip)
	tripGroup.GET("", trips.ListTrips)
	tripGroup.GET("/:tripId/days/:dayNumber", trips.GetDayStatus)
	tripGroup.PATCH("/:tripId/days/:dayNumber/votes", trips.SubmitVote)
	tripGroup.POST("/:tripId/days/:dayNumber/resolve", trips.ResolveDay)
	tripGroup.PATCH("/:tripId/days/:dayNumber/activities/order", trips.MoveActivity)
}
