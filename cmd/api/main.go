package main

import (
	"context"
	"net/http"
	"os"

	"pcenrich/adapters/postgres"
	"pcenrich/app"
	"pcenrich/internal"
	"pcenrich/internal/config"
	"pcenrich/ports"
	"pcenrich/ui"
)

func main() {
	logger := internal.DefaultLogger

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration: %v", err)
		os.Exit(1)
	}

	var store ports.RunStore
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			logger.Error("failed to connect to database: %v", err)
			os.Exit(1)
		}
		defer db.Close()

		repo := postgres.NewRunRepository(db)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			logger.Error("failed to prepare schema: %v", err)
			os.Exit(1)
		}
		store = repo
	} else {
		logger.Warn("DATABASE_URL not set, runs will not be persisted")
	}

	service := app.NewEnrichmentService(store, cfg.Workers)
	server := ui.NewServer(service)

	logger.Info("enrichment API listening on :%s", cfg.Server.Port)
	if err := http.ListenAndServe(":"+cfg.Server.Port, server.Handler()); err != nil {
		logger.Error("server stopped: %v", err)
		os.Exit(1)
	}
}
