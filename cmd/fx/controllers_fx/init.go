package controllers_fx

import (
	"go.uber.org/fx"

	"tripcraft/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewItineraryController),
	fx.Provide(controllers.NewFlightController),
	fx.Provide(controllers.NewHealthController))
