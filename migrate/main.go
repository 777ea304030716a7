package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/eyepatch-3097/ds-chatbot/config"
	"github.com/eyepatch-3097/ds-chatbot/envx"
	"github.com/eyepatch-3097/ds-chatbot/migrations"
	"github.com/eyepatch-3097/ds-chatbot/platform/db"
	applog "github.com/eyepatch-3097/ds-chatbot/platform/logger"
)

func main() {
	if err := envx.LoadDotEnvOverrideIfPresent(".env"); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg := config.Load()
	logger := applog.New(applog.Config{
		Service:     cfg.ServiceName + "-migrate",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		AddSource:   cfg.LogAddSource,
		Color:       cfg.LogColor,
	})
	slog.SetDefault(logger)

	database, err := db.Open(cfg.DBURL)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := migrations.Run(ctx, database, filepath.Join("migrations", "sql")); err != nil {
		logger.Error("database migrations failed", "error", err)
		os.Exit(1)
	}

	logger.Info("database migrations completed")
}
