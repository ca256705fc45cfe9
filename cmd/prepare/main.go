// Command prepare runs the BI handoff as a batch: it loads a sales CSV,
// builds the star model and writes every export artifact, without
// starting the web server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"vendas-dashboard/internal/config"
	"vendas-dashboard/internal/export"
	"vendas-dashboard/internal/observability"
	"vendas-dashboard/internal/services"
)

const loadTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	input := flag.String("input", cfg.Data.CSVFile, "source CSV path")
	encoding := flag.String("encoding", cfg.Data.Encoding, "source encoding (utf-8 or latin-1)")
	output := flag.String("output", cfg.Data.ExportDir, "export directory")
	flag.Parse()

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	analytics := services.NewAnalytics(logger)
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	if err := analytics.LoadFile(ctx, *input, *encoding); err != nil {
		logger.Error("failed to load csv", "path", *input, "error", err)
		os.Exit(1)
	}

	schema, err := analytics.StarSchema()
	if err != nil {
		logger.Error("failed to build star model", "error", err)
		os.Exit(1)
	}

	if err := export.All(*output, schema, logger); err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}

	logger.Info("batch preparation complete",
		"input", *input,
		"output", *output,
		"period_start", schema.Start.Format("2006-01-02"),
		"period_end", schema.End.Format("2006-01-02"),
	)
}
