package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"tripcraft/cmd/fx/config_fx"
	"tripcraft/cmd/fx/controllers_fx"
	"tripcraft/cmd/fx/db_fx"
	"tripcraft/cmd/fx/flight_fx"
	"tripcraft/cmd/fx/generator_fx"
	"tripcraft/cmd/fx/itinerary_fx"
	"tripcraft/internal/api/controllers"
	"tripcraft/internal/config"
	"tripcraft/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		generator_fx.Module,
		itinerary_fx.Module,
		flight_fx.Module,
		controllers_fx.Module,

		fx.Invoke(StartServer),
		fx.Provide(ProvideRouter),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("Starting HTTP server at :%s", cfg.Server.Port)
				if err := engine.Run(":" + cfg.Server.Port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	itineraryController *controllers.ItineraryController,
	flightController *controllers.FlightController,
	healthController *controllers.HealthController) *gin.Engine {

	r := gin.Default()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))

	RegisterRoutes(r, []byte(cfg.JWT.Secret), itineraryController, flightController, healthController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	jwtSecret []byte,
	itineraryController *controllers.ItineraryController,
	flightController *controllers.FlightController,
	healthController *controllers.HealthController) {

	r.GET("/health", healthController.Health)

	itineraryGroup := r.Group("/itineraries")
	itineraryGroup.Use(middleware.JWTAuthMiddleware(jwtSecret))
	itineraryGroup.POST("/generate", itineraryController.GenerateItinerary)
	itineraryGroup.GET("", itineraryController.ListItineraries)
	itineraryGroup.GET("/:id", itineraryController.GetItinerary)
	itineraryGroup.PATCH("/:id", itineraryController.UpdateItinerary)
	itineraryGroup.DELETE("/:id", itineraryController.DeleteItinerary)
	itineraryGroup.POST("/:id/optimize-budget", itineraryController.OptimizeBudget)
	itineraryGroup.GET("/:id/calendar.ics", itineraryController.ExportCalendar)

	flightGroup := r.Group("/flights")
	flightGroup.Use(middleware.JWTAuthMiddleware(jwtSecret))
	flightGroup.GET("/search", flightController.SearchFlights)
}
