package itinerary_fx

import (
	"go.uber.org/fx"

	"tripcraft/internal/config"
	"tripcraft/internal/repositories"
	"tripcraft/internal/services"
	"tripcraft/pkg/utils"
)

var Module = fx.Provide(
	provideBudgetReconciler, provideItineraryService, services.NewCalendarService)

func provideBudgetReconciler(generator utils.TextGenerator, cfg *config.Config) services.BudgetReconcilerInterface {
	return services.NewBudgetReconciler(generator, cfg.Generation.Timeout)
}

func provideItineraryService(
	repo repositories.ItineraryRepository,
	logRepo repositories.GenerationLogRepository,
	generator utils.TextGenerator,
	reconciler services.BudgetReconcilerInterface,
	clock utils.Clock,
	cfg *config.Config,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(repo, logRepo, generator, reconciler, clock, cfg.Generation.Timeout)
}
