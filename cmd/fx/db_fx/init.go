package db_fx

import (
	"context"
	"log"
	"time"

	"go.uber.org/fx"

	"tripcraft/internal/config"
	"tripcraft/internal/infra"
	"tripcraft/internal/repositories"
)

var Module = fx.Provide(provideRepositories)

// provideRepositories opens the configured store and hands back both
// repositories backed by it.
func provideRepositories(lc fx.Lifecycle, cfg *config.Config) (repositories.ItineraryRepository, repositories.GenerationLogRepository, error) {
	switch cfg.Storage.Driver {
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := infra.InitMongo(ctx, cfg.Storage)
		if err != nil {
			return nil, nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				infra.CloseMongo(ctx, db)
				return nil
			},
		})
		log.Printf("Using MongoDB database %s", cfg.Storage.MongoDatabase)
		return repositories.NewMongoItineraryRepository(db), repositories.NewMongoGenerationLogRepository(db), nil
	default:
		db, err := infra.InitPostgresql(cfg.Storage)
		if err != nil {
			return nil, nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				infra.ClosePostgresql(db)
				return nil
			},
		})
		log.Printf("Using PostgreSQL via %s driver", cfg.Storage.PostgresDriverName)
		return repositories.NewItineraryRepository(db), repositories.NewGenerationLogRepository(db), nil
	}
}
