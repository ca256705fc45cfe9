package handlers

import (
	"html/template"
	"log/slog"
	"net/http"

	"vendas-dashboard/internal/services"
)

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Painel de Vendas</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f4f5f7; color: #1f2933; }
header { background: #102a43; color: #fff; padding: 1rem 2rem; }
header h1 { margin: 0; font-size: 1.3rem; }
main { padding: 1.5rem 2rem; display: grid; gap: 1.5rem; }
.cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 1rem; }
.card { background: #fff; border-radius: 8px; padding: 1rem; box-shadow: 0 1px 3px rgba(0,0,0,.1); }
.card .label { font-size: .75rem; text-transform: uppercase; color: #627d98; }
.card .value { font-size: 1.4rem; font-weight: 700; }
.panel { background: #fff; border-radius: 8px; padding: 1rem; box-shadow: 0 1px 3px rgba(0,0,0,.1); }
.modern-table { width: 100%; border-collapse: collapse; font-size: .9rem; }
.modern-table th { text-align: left; border-bottom: 2px solid #d9e2ec; padding: .5rem; }
.modern-table td { border-bottom: 1px solid #e4e7eb; padding: .5rem; }
.category-badge { background: #e0f2fe; border-radius: 4px; padding: .1rem .4rem; }
.growth-up { color: #0f7b3f; }
.growth-down { color: #ba2525; }
.sample-banner { background: #fff3cd; border: 1px solid #ffe69c; padding: .5rem 1rem; border-radius: 6px; }
</style>
</head>
<body>
<header><h1>📊 Painel de Vendas</h1></header>
<main>
{{if not .RealData}}<div class="sample-banner">Dados de demonstração gerados automaticamente. Envie um CSV para analisar dados reais.</div>{{end}}
<section class="cards">
<div class="card"><div class="label">Faturamento total</div><div class="value">R$ {{printf "%.2f" .Overview.TotalRevenue}}</div></div>
<div class="card"><div class="label">Registros</div><div class="value">{{.Overview.Records}}</div></div>
<div class="card"><div class="label">Mês de pico</div><div class="value">{{.Overview.PeakMonth}}</div></div>
{{if .HasMeanGrowth}}<div class="card"><div class="label">Crescimento médio</div><div class="value">{{printf "%.2f" .MeanGrowth}}%</div></div>{{end}}
{{if .Overview.Top3}}<div class="card"><div class="label">Concentração top 3</div><div class="value">{{printf "%.1f" .Overview.Top3.SharePct}}%</div></div>{{end}}
</section>
<section class="panel" id="growth-content" data-on-load="@get('/sse/growth')">Carregando crescimento…</section>
<section class="panel" id="pareto-content" data-on-load="@get('/sse/pareto')">Carregando Pareto…</section>
<section class="panel" id="yoy-content" data-on-load="@get('/sse/yoy')">Carregando comparativo anual…</section>
</main>
</body>
</html>`))

type PageHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewPageHandlers(analytics *services.Analytics, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{analytics: analytics, logger: logger}
}

// HandleDashboard renders the server-side shell; the result panels load
// themselves over SSE.
func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	overview, err := h.analytics.Overview(services.Selectors{})
	if err != nil {
		h.logger.Error("dashboard overview", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Overview": overview,
		"RealData": overview.RealData,
	}
	if overview.MeanGrowth != nil {
		data["HasMeanGrowth"] = true
		data["MeanGrowth"] = *overview.MeanGrowth
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := dashboardTemplate.Execute(w, data); err != nil {
		h.logger.Error("render dashboard", "error", err)
	}
}
