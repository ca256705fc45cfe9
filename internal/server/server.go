package server

import (
	"log/slog"
	"net/http"

	"vendas-dashboard/internal/config"
	"vendas-dashboard/internal/handlers"
	"vendas-dashboard/internal/services"
)

type Server struct {
	analytics    *services.Analytics
	mux          *http.ServeMux
	logger       *slog.Logger
	apiHandlers  *handlers.APIHandlers
	sseHandlers  *handlers.SSEHandlers
	pageHandlers *handlers.PageHandlers
}

func NewServer(analytics *services.Analytics, cfg *config.Config, logger *slog.Logger) *Server {
	s := &Server{
		analytics:    analytics,
		mux:          http.NewServeMux(),
		logger:       logger,
		apiHandlers:  handlers.NewAPIHandlers(analytics, cfg, logger),
		sseHandlers:  handlers.NewSSEHandlers(analytics, cfg, logger),
		pageHandlers: handlers.NewPageHandlers(analytics, logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", s.pageHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/columns", s.apiHandlers.HandleColumns)
	s.mux.HandleFunc("GET /api/overview", s.apiHandlers.HandleOverview)
	s.mux.HandleFunc("GET /api/growth", s.apiHandlers.HandleGrowth)
	s.mux.HandleFunc("GET /api/pareto", s.apiHandlers.HandlePareto)
	s.mux.HandleFunc("GET /api/yoy", s.apiHandlers.HandleYoY)
	s.mux.HandleFunc("POST /api/upload", s.apiHandlers.HandleUpload)
	s.mux.HandleFunc("POST /api/export", s.apiHandlers.HandleExport)

	// CSV downloads
	s.mux.HandleFunc("GET /api/growth.csv", s.apiHandlers.HandleGrowthCSV)
	s.mux.HandleFunc("GET /api/pareto.csv", s.apiHandlers.HandleParetoCSV)
	s.mux.HandleFunc("GET /api/yoy.csv", s.apiHandlers.HandleYoYCSV)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/growth", s.sseHandlers.HandleGrowth)
	s.mux.HandleFunc("GET /sse/pareto", s.sseHandlers.HandlePareto)
	s.mux.HandleFunc("GET /sse/yoy", s.sseHandlers.HandleYoY)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
