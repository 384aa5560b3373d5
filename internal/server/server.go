package server

import (
	"log/slog"
	"net/http"

	"retail-dashboard/internal/dashboard"
	"retail-dashboard/internal/handlers"
	"retail-dashboard/internal/observability"
)

type Server struct {
	dash        *dashboard.Dashboard
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
	metrics     *observability.Metrics
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(dash *dashboard.Dashboard, metrics *observability.Metrics, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		dash:        dash,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(dash, metrics, logger),
		sseHandlers: handlers.NewSSEHandlers(dash, logger),
		metrics:     metrics,
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard page and operational endpoints
	s.mux.HandleFunc("GET /", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)
	s.mux.HandleFunc("POST /admin/reload", s.apiHandlers.HandleReload)
	s.mux.Handle("GET /metrics", s.metrics.Handler())

	// REST API endpoints. A trailing .png on the chart name selects the
	// image export, so both forms share one route.
	s.mux.HandleFunc("GET /api/kpis", s.apiHandlers.HandleKPIs)
	s.mux.HandleFunc("GET /api/charts", s.apiHandlers.HandleChartList)
	s.mux.HandleFunc("GET /api/charts/{name}", s.apiHandlers.HandleChart)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/kpis", s.sseHandlers.HandleKPIs)
	s.mux.HandleFunc("GET /sse/charts", s.sseHandlers.HandleCharts)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
