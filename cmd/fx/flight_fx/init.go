package flight_fx

import (
	"log"

	"go.uber.org/fx"

	"tripcraft/internal/config"
	"tripcraft/internal/services"
	"tripcraft/pkg/utils"
)

var Module = fx.Provide(provideFlightService)

// provideFlightService yields a nil service when Amadeus credentials are absent.
func provideFlightService(cfg *config.Config, clock utils.Clock) services.FlightServiceInterface {
	if !cfg.FlightsEnabled() {
		log.Println("Flight search disabled: AMADEUS_CLIENT_ID / AMADEUS_CLIENT_SECRET not set")
		return nil
	}
	return services.NewFlightService(cfg.Flights, clock)
}
