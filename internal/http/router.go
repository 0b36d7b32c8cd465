// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"unipool/internal/http/handlers"
	"unipool/internal/http/middleware"
	"unipool/internal/infra"
	"unipool/internal/modules/catalog"
	"unipool/internal/modules/fare"
	"unipool/internal/modules/fleet"
	"unipool/internal/modules/ride"
)

type RouterDeps struct {
	Catalog  *catalog.Service
	Fleet    *fleet.Service
	Fares    *fare.Service
	Rides    *ride.Service
	Verifier infra.TokenVerifier
	Log      *slog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(deps.Log),
		middleware.Recovery(deps.Log),
	)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)
	fleetHandler := handlers.NewFleetHandler(deps.Fleet)
	fareHandler := handlers.NewFareHandler(deps.Fares)
	rideHandler := handlers.NewRideHandler(deps.Rides)

	api := r.Group("/api")

	// Public reference data and quotes.
	api.GET("/zones", catalogHandler.ListZones)
	api.GET("/zones/:zoneId/routes", catalogHandler.ListRoutes)
	api.GET("/routes/:routeId/subzones", catalogHandler.ListSubzones)
	api.GET("/routes/:routeId/meeting-points", catalogHandler.ListMeetingPoints)
	api.GET("/fares/quote", fareHandler.Quote)
	api.GET("/rides", rideHandler.List)
	api.GET("/rides/:id", rideHandler.Get)

	auth := api.Group("", middleware.Auth(deps.Verifier))

	// Driver-facing.
	auth.POST("/drivers", fleetHandler.RegisterDriver)
	auth.GET("/drivers/:id", fleetHandler.GetDriver)
	auth.POST("/cars", fleetHandler.RegisterCar)
	auth.GET("/cars", fleetHandler.MyCars)
	auth.POST("/rides", rideHandler.Create)
	auth.POST("/rides/:id/cancel", rideHandler.Cancel)
	auth.GET("/rides/history", rideHandler.History)

	// Booking service and internal tooling.
	auth.POST("/rides/:id/seats", rideHandler.UpdateSeats)
	auth.POST("/rides/:id/deactivate", rideHandler.Deactivate)

	// Admin.
	admin := auth.Group("", middleware.RequireRole("admin"))
	admin.POST("/zones", catalogHandler.CreateZone)
	admin.POST("/zones/:zoneId/routes", catalogHandler.CreateRoute)
	admin.POST("/routes/:routeId/subzones", catalogHandler.CreateSubzone)
	admin.POST("/routes/:routeId/meeting-points", catalogHandler.CreateMeetingPoint)
	admin.POST("/meeting-points/:pointId/subzone", catalogHandler.AssignSubzone)
	admin.POST("/drivers/:id/approve", fleetHandler.ApproveDriver)

	return r
}
