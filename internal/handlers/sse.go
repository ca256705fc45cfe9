package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"vendas-dashboard/internal/config"
	"vendas-dashboard/internal/engine"
	"vendas-dashboard/internal/models"
	"vendas-dashboard/internal/services"
)

const maxGrowthRows = 60

var growthTableTemplate = template.Must(template.New("growthTable").Parse(`
<div id="growth-content">
<table class="modern-table">
<thead><tr><th>Período</th><th>Total</th><th>Crescimento</th></tr></thead>
<tbody>
{{range .Records}}<tr>
<td>{{.Period}}</td>
<td><strong>R$ {{printf "%.2f" .Total}}</strong></td>
<td>{{if .HasGrowth}}<span class="{{.GrowthClass}}">{{printf "%.2f" .GrowthPct}}%</span>{{else}}&ndash;{{end}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

// growthViewRow flattens the optional delta for the template.
type growthViewRow struct {
	Period      string
	Total       float64
	HasGrowth   bool
	GrowthPct   float64
	GrowthClass string
}

func growthView(records []models.GrowthRecord) []growthViewRow {
	rows := make([]growthViewRow, len(records))
	for i, r := range records {
		rows[i] = growthViewRow{Period: r.Period, Total: r.Total}
		if r.GrowthPct != nil {
			rows[i].HasGrowth = true
			rows[i].GrowthPct = *r.GrowthPct
			rows[i].GrowthClass = "growth-up"
			if *r.GrowthPct < 0 {
				rows[i].GrowthClass = "growth-down"
			}
		}
	}
	return rows
}

var paretoTableTemplate = template.Must(template.New("paretoTable").Parse(`
<div id="pareto-content">
<table class="modern-table">
<thead><tr><th>#</th><th>Dimensão</th><th>Total</th><th>Participação</th><th>Acumulado</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Rank}}</td>
<td><span class="category-badge">{{.Dimension}}</span></td>
<td><strong>R$ {{printf "%.2f" .Total}}</strong></td>
<td>{{printf "%.2f" .SharePct}}%</td>
<td>{{printf "%.2f" .CumSharePct}}%</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	analytics *services.Analytics
	cfg       *config.Config
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, cfg *config.Config, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		cfg:       cfg,
		logger:    logger,
	}
}

func (h *SSEHandlers) selectors(r *http.Request) services.Selectors {
	q := r.URL.Query()
	sel := services.Selectors{
		DateCol:      q.Get("date_col"),
		ValueCol:     q.Get("value_col"),
		DimensionCol: q.Get("dimension_col"),
		TopN:         h.cfg.Data.TopNDefault,
	}
	if period, err := engine.ParsePeriod(q.Get("period")); err == nil {
		sel.Period = period
	}
	return sel
}

func (h *SSEHandlers) renderGrowthTable(records []models.GrowthRecord) (string, error) {
	if len(records) > maxGrowthRows {
		records = records[len(records)-maxGrowthRows:]
	}
	var buf strings.Builder
	err := growthTableTemplate.Execute(&buf, map[string]any{"Records": growthView(records)})
	return buf.String(), err
}

func (h *SSEHandlers) renderParetoTable(rows []models.ParetoRow) (string, error) {
	var buf strings.Builder
	err := paretoTableTemplate.Execute(&buf, map[string]any{"Rows": rows})
	return buf.String(), err
}

func (h *SSEHandlers) HandleGrowth(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	records, summary, _, err := h.analytics.Growth(h.selectors(r))
	if err != nil {
		h.logger.Error("sse growth", "error", err)
		return
	}

	html, err := h.renderGrowthTable(records)
	if err != nil {
		h.logger.Error("render growth table", "error", err)
		return
	}
	sse.PatchElements(html)

	signals, err := json.Marshal(map[string]any{
		"growthData":    records,
		"growthSummary": summary,
	})
	if err != nil {
		h.logger.Error("marshal growth signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandlePareto(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	sel := h.selectors(r)
	rows, top3, err := h.analytics.Pareto(sel)
	if err != nil {
		h.logger.Error("sse pareto", "error", err)
		return
	}
	truncated := engine.TruncatePareto(rows, sel.TopN)

	html, err := h.renderParetoTable(truncated)
	if err != nil {
		h.logger.Error("render pareto table", "error", err)
		return
	}
	sse.PatchElements(html)

	signals, err := json.Marshal(map[string]any{
		"paretoData": truncated,
		"top3":       top3,
	})
	if err != nil {
		h.logger.Error("marshal pareto signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleYoY(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	rows, _, err := h.analytics.YoY(h.selectors(r))
	if err != nil {
		h.logger.Error("sse yoy", "error", err)
		return
	}

	signals, err := json.Marshal(map[string]any{
		"yoyData": rows,
	})
	if err != nil {
		h.logger.Error("marshal yoy signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	sse.PatchElements(`<div id="yoy-content">✅ Comparativo anual carregado</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleRefreshAll recomputes every table in one pass and pushes the
// whole dashboard state through a single SSE stream.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	sel := h.selectors(r)
	results, err := h.analytics.Compute(r.Context(), sel)
	if err != nil {
		h.logger.Error("sse refresh-all", "error", err)
		return
	}

	html, err := h.renderGrowthTable(results.Growth)
	if err != nil {
		h.logger.Error("render growth table", "error", err)
		return
	}
	sse.PatchElements(html)

	if results.Pareto != nil {
		paretoHTML, err := h.renderParetoTable(engine.TruncatePareto(results.Pareto, sel.TopN))
		if err != nil {
			h.logger.Error("render pareto table", "error", err)
			return
		}
		sse.PatchElements(paretoHTML)
	}

	signals, err := json.Marshal(map[string]any{
		"growthData":    results.Growth,
		"growthSummary": results.GrowthSummary,
		"paretoData":    results.Pareto,
		"top3":          results.Top3,
		"yoyData":       results.YoY,
		"cleanStats":    results.CleanStats,
	})
	if err != nil {
		h.logger.Error("marshal refresh signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
