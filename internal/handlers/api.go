package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"retail-dashboard/internal/analytics"
	"retail-dashboard/internal/charts"
	"retail-dashboard/internal/dashboard"
	"retail-dashboard/internal/dataset"
	apperrors "retail-dashboard/internal/errors"
	"retail-dashboard/internal/observability"
)

type APIHandlers struct {
	dash    *dashboard.Dashboard
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewAPIHandlers(dash *dashboard.Dashboard, metrics *observability.Metrics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dash:    dash,
		metrics: metrics,
		logger:  logger,
	}
}

var cacheHeaders = map[string]string{
	"Cache-Control": "public, max-age=300",
}

// writeError maps domain failures onto the JSON error envelope. Missing
// columns are the caller-visible schema error class; everything else
// follows the standard codes.
func (h *APIHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := observability.GetRequestID(r.Context())

	var appErr *apperrors.AppError
	var schemaErr *analytics.SchemaError
	var exportErr *charts.ErrUnsupportedExport

	switch {
	case errors.As(err, &appErr):
	case errors.As(err, &schemaErr):
		appErr = apperrors.SchemaWrap(err, "dataset lacks required columns")
		appErr.Details = strings.Join(schemaErr.Missing, ", ")
	case errors.As(err, &exportErr):
		appErr = apperrors.BadRequest(err.Error())
	case errors.Is(err, dashboard.ErrUnknownChart):
		appErr = apperrors.NotFound(err.Error())
	case errors.Is(err, dataset.ErrNotLoaded):
		appErr = apperrors.ServiceUnavailable("dataset not loaded")
	default:
		appErr = apperrors.InternalWrap(err, "An unexpected error occurred")
	}

	apperrors.WriteError(w, h.logger, appErr, requestID)
}

func (h *APIHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.dash.KPIs()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	apperrors.WriteSuccessWithHeaders(w, kpis, cacheHeaders)
}

func (h *APIHandlers) HandleChartList(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteSuccessWithHeaders(w, map[string]any{
		"charts": h.dash.Names(),
	}, cacheHeaders)
}

func (h *APIHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if strings.HasSuffix(name, ".png") {
		h.serveChartPNG(w, r, strings.TrimSuffix(name, ".png"))
		return
	}

	spec, err := h.dash.Chart(name)
	if err != nil {
		h.metrics.ChartBuildsTotal.WithLabelValues(name, "error").Inc()
		h.writeError(w, r, err)
		return
	}
	h.metrics.ChartBuildsTotal.WithLabelValues(name, "ok").Inc()

	apperrors.WriteSuccessWithHeaders(w, spec, cacheHeaders)
}

func (h *APIHandlers) serveChartPNG(w http.ResponseWriter, r *http.Request, name string) {
	spec, err := h.dash.Chart(name)
	if err != nil {
		h.metrics.ChartBuildsTotal.WithLabelValues(name, "error").Inc()
		h.writeError(w, r, err)
		return
	}

	// Render into memory first so a draw failure still produces a clean
	// JSON error instead of a truncated image.
	var buf bytes.Buffer
	if err := charts.RenderPNG(spec, &buf); err != nil {
		h.metrics.ChartBuildsTotal.WithLabelValues(name, "error").Inc()
		h.writeError(w, r, err)
		return
	}
	h.metrics.ChartBuildsTotal.WithLabelValues(name, "ok").Inc()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_, err := h.dash.Store().Snapshot()

	healthData := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
		"dataset":   err == nil,
	}

	apperrors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.dash.Store().Stats()

	apperrors.WriteSuccess(w, stats)
}

// HandleReload is the only invalidation path: the dataset is re-read
// from disk on explicit request, never behind the caller's back.
func (h *APIHandlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	store := h.dash.Store()
	if err := store.Reload(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}

	if t, err := store.Snapshot(); err == nil {
		h.metrics.ObserveDataset(t.Rows(), len(t.ColumnNames()))
	}

	apperrors.WriteSuccess(w, map[string]any{
		"reloaded": true,
		"stats":    store.Stats(),
	})
}
