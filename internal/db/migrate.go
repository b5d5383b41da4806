package db

import (
	"github.com/ikkim/visitor-registration-backend/internal/app/model"
	"github.com/ikkim/visitor-registration-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table owned by the service.
func Models() []interface{} {
	return []interface{}{
		&model.Visitor{},
	}
}

// Migrate creates missing tables, columns and indexes. Safe to run on every start.
func Migrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
