package db

import (
	"context"
	"fmt"

	"github.com/ikkim/visitor-registration-backend/config"
	appLogger "github.com/ikkim/visitor-registration-backend/pkg/logger"
	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector picks the gorm dialector for the configured connection target.
func Dialector(cfg *config.DatabaseConfig) gorm.Dialector {
	dsn := cfg.DSN()

	switch cfg.Dialect() {
	case config.DriverPostgres:
		pgConfig := postgres.Config{DSN: dsn}
		if cfg.PostgresDriver == config.PostgresDriverPQ {
			pgConfig.DriverName = "postgres"
		}
		return postgres.New(pgConfig)
	case config.DriverMySQL:
		return mysql.New(mysql.Config{
			DSN: dsn,
			// Skip the version probe so Open succeeds while the server is down.
			SkipInitializeWithVersion: true,
			DefaultStringSize:         256,
		})
	default:
		return sqlite.Open(dsn)
	}
}

// Open returns a database handle without requiring the server to be reachable.
// Connectivity problems surface on first use (migration, ping or query).
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	appLogger.Info("Connecting to database", map[string]interface{}{
		"dialect":  cfg.Dialect(),
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.Name,
		"user":     cfg.User,
	})

	gormLogger := logger.Default.LogMode(logger.Silent)
	if cfg.Echo {
		gormLogger = NewGormLogger(appLogger.Get(), logger.Info)
	}

	db, err := gorm.Open(Dialector(cfg), &gorm.Config{
		Logger:               gormLogger,
		TranslateError:       true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	if cfg.Dialect() == config.DriverSQLite {
		// SQLite allows a single writer; serialize access instead of failing with SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	}

	appLogger.Info("Database handle ready", map[string]interface{}{
		"max_idle_conns": cfg.MaxIdleConns,
		"max_open_conns": cfg.MaxOpenConns,
	})
	return db, nil
}

// Ping checks that the database is reachable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
