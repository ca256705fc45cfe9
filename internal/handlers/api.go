package handlers

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"vendas-dashboard/internal/config"
	"vendas-dashboard/internal/engine"
	"vendas-dashboard/internal/errors"
	"vendas-dashboard/internal/export"
	"vendas-dashboard/internal/observability"
	"vendas-dashboard/internal/services"
	"vendas-dashboard/internal/star"
)

// maxUploadBytes caps uploaded CSVs at 32 MiB.
const maxUploadBytes = 32 << 20

type APIHandlers struct {
	analytics *services.Analytics
	cfg       *config.Config
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, cfg *config.Config, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		cfg:       cfg,
		logger:    logger,
	}
}

// selectorsFromQuery reads the column mapping from the query string.
// Missing values fall back to the inferred defaults inside the service.
func (h *APIHandlers) selectorsFromQuery(r *http.Request) (services.Selectors, error) {
	q := r.URL.Query()
	sel := services.Selectors{
		DateCol:      q.Get("date_col"),
		ValueCol:     q.Get("value_col"),
		DimensionCol: q.Get("dimension_col"),
	}

	if raw := q.Get("period"); raw != "" {
		period, err := engine.ParsePeriod(raw)
		if err != nil {
			return sel, errors.InvalidPeriod(err)
		}
		sel.Period = period
	}

	if raw := q.Get("top_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return sel, errors.BadRequestWrap(err, "top_n must be an integer")
		}
		sel.TopN = h.cfg.ClampTopN(n)
	} else {
		sel.TopN = h.cfg.Data.TopNDefault
	}
	return sel, nil
}

// writeDomainError translates calculator failures into the JSON envelope.
func (h *APIHandlers) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := observability.GetRequestID(r.Context())
	switch {
	case stderrors.Is(err, engine.ErrNoDateColumn):
		errors.WriteError(w, h.logger, errors.NoDateColumn(err), requestID)
	case stderrors.Is(err, engine.ErrNoValueColumn):
		errors.WriteError(w, h.logger, errors.NoValueColumn(err), requestID)
	case stderrors.Is(err, engine.ErrNoDimensionColumn):
		errors.WriteError(w, h.logger, errors.NoDimensionColumn(err), requestID)
	case stderrors.Is(err, engine.ErrInvalidPeriod):
		errors.WriteError(w, h.logger, errors.InvalidPeriod(err), requestID)
	default:
		errors.WriteError(w, h.logger, err, requestID)
	}
}

func (h *APIHandlers) HandleColumns(w http.ResponseWriter, r *http.Request) {
	columns, err := h.analytics.Columns()
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	errors.WriteSuccess(w, map[string]any{
		"columns":  columns,
		"defaults": h.analytics.Defaults(),
	})
}

func (h *APIHandlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selectorsFromQuery(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	overview, err := h.analytics.Overview(sel)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, overview, map[string]string{
		"Cache-Control": "public, max-age=60",
	})
}

func (h *APIHandlers) HandleGrowth(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selectorsFromQuery(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	records, summary, stats, err := h.analytics.Growth(sel)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	errors.WriteSuccess(w, map[string]any{
		"records":     records,
		"summary":     summary,
		"clean_stats": stats,
	})
}

func (h *APIHandlers) HandlePareto(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selectorsFromQuery(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	rows, top3, err := h.analytics.Pareto(sel)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	errors.WriteSuccess(w, map[string]any{
		"rows":  engine.TruncatePareto(rows, sel.TopN),
		"total": len(rows),
		"top3":  top3,
	})
}

func (h *APIHandlers) HandleYoY(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selectorsFromQuery(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	rows, stats, err := h.analytics.YoY(sel)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	errors.WriteSuccess(w, map[string]any{
		"rows":        rows,
		"clean_stats": stats,
	})
}

// HandleUpload swaps the working table for an uploaded CSV.
func (h *APIHandlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "Multipart field 'file' is required"), requestID)
		return
	}
	defer file.Close()

	if err := h.analytics.LoadUpload(header.Filename, file); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "Upload could not be parsed as CSV"), requestID)
		return
	}

	errors.WriteSuccess(w, map[string]any{
		"source":   header.Filename,
		"defaults": h.analytics.Defaults(),
		"stats":    h.analytics.Stats(),
	})
}

// HandleExport builds the star model from the current table and writes
// every export artifact to the configured directory.
func (h *APIHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	schema, err := h.analytics.StarSchema()
	if stderrors.Is(err, star.ErrEmptyAfterCleaning) {
		errors.WriteError(w, h.logger, errors.EmptyData(err), requestID)
		return
	}
	if err != nil {
		errors.WriteError(w, h.logger, errors.Wrap(err, errors.CodeValidation, "Current table cannot be modeled"), requestID)
		return
	}

	if err := export.All(h.cfg.Data.ExportDir, schema, h.logger); err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Export failed"), requestID)
		return
	}

	errors.WriteSuccess(w, export.NewMetadata(schema, time.Now()))
}

// CSV downloads share the JSON endpoints' selector parsing.

func (h *APIHandlers) HandleGrowthCSV(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selectorsFromQuery(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	records, _, _, err := h.analytics.Growth(sel)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeCSVHeaders(w, "crescimento.csv")
	if err := export.WriteGrowthCSV(w, records); err != nil {
		h.logger.Error("stream growth csv", "error", err)
	}
}

func (h *APIHandlers) HandleParetoCSV(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selectorsFromQuery(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	rows, _, err := h.analytics.Pareto(sel)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeCSVHeaders(w, "pareto.csv")
	if err := export.WriteParetoCSV(w, rows); err != nil {
		h.logger.Error("stream pareto csv", "error", err)
	}
}

func (h *APIHandlers) HandleYoYCSV(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selectorsFromQuery(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	rows, _, err := h.analytics.YoY(sel)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeCSVHeaders(w, "yoy.csv")
	if err := export.WriteYoYCSV(w, rows); err != nil {
		h.logger.Error("stream yoy csv", "error", err)
	}
}

func writeCSVHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.analytics.Stats()

	errors.WriteSuccess(w, stats)
}
