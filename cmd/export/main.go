package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ikkim/visitor-registration-backend/config"
	"github.com/ikkim/visitor-registration-backend/internal/app/repository"
	"github.com/ikkim/visitor-registration-backend/internal/db"
	"github.com/ikkim/visitor-registration-backend/internal/report"
	"github.com/ikkim/visitor-registration-backend/internal/storage"
	"github.com/ikkim/visitor-registration-backend/pkg/logger"
)

func main() {
	out := flag.String("out", report.DefaultFileName(time.Now()), "path of the xlsx file to write")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format != "json",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	err = run(ctx, cfg, *out)
	cancel()
	if err != nil {
		logger.Fatal("Visitor export failed", err, map[string]interface{}{
			"path": *out,
		})
	}
}

// run writes every visitor to out and uploads the file when a bucket is configured.
func run(ctx context.Context, cfg *config.Config, out string) error {
	gdb, err := db.Open(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	visitorRepo := repository.NewVisitorRepository(gdb)
	visitors, err := visitorRepo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load visitors: %w", err)
	}

	var buf bytes.Buffer
	if err := report.WriteVisitorsXLSX(&buf, visitors); err != nil {
		return err
	}

	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Info("Visitors exported", map[string]interface{}{
		"count": len(visitors),
		"path":  out,
	})
	fmt.Printf("Exported %d visitors to %s\n", len(visitors), out)

	if cfg.Export.S3.Bucket == "" {
		return nil
	}

	s3Storage := storage.NewS3Storage(ctx, cfg.Export.S3)
	result, err := s3Storage.Upload(ctx, out, bytes.NewReader(buf.Bytes()), report.XLSXContentType)
	if err != nil {
		return err
	}

	logger.Info("Workbook uploaded", map[string]interface{}{
		"bucket": result.Bucket,
		"key":    result.Key,
	})
	fmt.Printf("Uploaded to %s\n", result.URL)
	return nil
}
