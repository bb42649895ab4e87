package main

import (
	"errors"
	"log"
	"net/http"
	"os"

	"clashbases-api/internal/app"
	"clashbases-api/internal/config"
	"clashbases-api/internal/fetcher"
	"clashbases-api/internal/observability"
	"clashbases-api/internal/scraper"
	"clashbases-api/internal/server"
)

func main() {
	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := observability.NewLogger(cfg.Observability)

	f := fetcher.NewFetcher(cfg, logger)
	e := scraper.NewExtractor(cfg.Site.Domain)
	pipeline := app.NewPipeline(cfg, logger, f, e)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.NewServer(cfg, logger, pipeline),
	}

	go func() {
		logger.Info("Server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	app.WaitForShutdown(logger, srv, cfg.GetShutdownTimeout())
	logger.Info("Server stopped")
}
