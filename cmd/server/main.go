package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/visitor-registration-backend/config"
	"github.com/ikkim/visitor-registration-backend/internal/app/controller"
	"github.com/ikkim/visitor-registration-backend/internal/app/repository"
	"github.com/ikkim/visitor-registration-backend/internal/app/service"
	"github.com/ikkim/visitor-registration-backend/internal/db"
	"github.com/ikkim/visitor-registration-backend/internal/router"
	"github.com/ikkim/visitor-registration-backend/pkg/logger"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format != "json",
	})

	logger.Info("Starting visitor registration server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   cfg.Log.Level,
		"dialect":     cfg.Database.Dialect(),
	})

	// The HTTP surface starts even when the database is down; requests that
	// need persistence fail with 500 until it comes back.
	visitorRepo, gdb := openVisitorRepository(&cfg.Database)
	if gdb != nil {
		defer func() {
			if err := db.Close(gdb); err != nil {
				logger.Error("Failed to close database connection", err)
			}
		}()
	}

	visitorService := service.NewVisitorService(visitorRepo)
	visitorController := controller.NewVisitorController(visitorService)

	engine := router.NewRouter(visitorController, cfg).Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
		return
	}

	logger.Info("Server stopped successfully")
}

func openVisitorRepository(cfg *config.DatabaseConfig) (repository.VisitorRepository, *gorm.DB) {
	gdb, err := db.Open(cfg)
	if err != nil {
		logger.Error("Database unavailable, registrations will fail until restart", err)
		return repository.NewUnavailableVisitorRepository(err), nil
	}

	if err := db.Migrate(gdb); err != nil {
		logger.Warn("Continuing without schema migration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return repository.NewVisitorRepository(gdb), gdb
}
