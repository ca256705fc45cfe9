package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"vendas-dashboard/internal/config"
	"vendas-dashboard/internal/middleware"
	"vendas-dashboard/internal/observability"
	"vendas-dashboard/internal/server"
	"vendas-dashboard/internal/services"
)

const csvLoadTimeout = 30 * time.Second

// loadData loads the configured CSV, falling back to the generated
// sample dataset when the file is absent.
func loadData(ctx context.Context, analytics *services.Analytics, cfg *config.Config, logger *slog.Logger) error {
	if _, err := os.Stat(cfg.Data.CSVFile); err != nil {
		logger.Warn("csv file not found, falling back to sample data",
			"path", cfg.Data.CSVFile,
		)
		return analytics.UseSample()
	}
	return analytics.LoadFile(ctx, cfg.Data.CSVFile, cfg.Data.Encoding)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"csv_file", cfg.Data.CSVFile,
		"export_dir", cfg.Data.ExportDir,
	)

	analytics := services.NewAnalytics(logger)
	ctx, cancel := context.WithTimeout(context.Background(), csvLoadTimeout)
	defer cancel()

	start := time.Now()
	if err := loadData(ctx, analytics, cfg, logger); err != nil {
		logger.Error("failed to load data", "error", err)
		os.Exit(1)
	}
	logger.Info("data ready", "duration", time.Since(start), "defaults", analytics.Defaults())

	srv := server.NewServer(analytics, cfg, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	handler := middlewareChain(srv)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook("analytics-cache", func(ctx context.Context) error {
		logger.Info("dropping cached source tables")
		analytics.Invalidate()
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
