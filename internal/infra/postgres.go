package infra

import (
	"fmt"
	"log"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tripcraft/internal/config"
	"tripcraft/internal/models/db_models"
)

func InitPostgresql(cfg config.StorageConfig) (*gorm.DB, error) {
	dialector := postgres.New(postgres.Config{
		DriverName: cfg.PostgresDriverName,
		DSN:        cfg.PostgresURL,
	})

	connectionPool, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Printf("Error connecting to database: %v", err)
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := connectionPool.AutoMigrate(&db_models.Itinerary{}, &db_models.GenerationLog{}); err != nil {
		log.Printf("Error migrating database: %v", err)
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}

	log.Printf("PostgreSQL connected using driver %s", cfg.PostgresDriverName)
	return connectionPool, nil
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting database instance: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("PostgreSQL database connection closed successfully")
	}
}

func StartTransaction(db *gorm.DB) *gorm.DB {
	tx := db.Begin()
	if tx.Error != nil {
		log.Printf("Error starting transaction: %v", tx.Error)
	}
	return tx
}

// ReleaseTransaction commits tx when err is nil and rolls it back otherwise.
func ReleaseTransaction(tx *gorm.DB, err error) error {
	if err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			log.Printf("Error rollback transaction: %v", rollbackErr)
		}
		return err
	}
	if commitErr := tx.Commit().Error; commitErr != nil {
		log.Printf("Error committing transaction: %v", commitErr)
		return commitErr
	}
	return nil
}
