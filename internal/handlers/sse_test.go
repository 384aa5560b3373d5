package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"retail-dashboard/internal/analytics"
)

func fptr(v float64) *float64 { return &v }

func createSSEHandlers() *SSEHandlers {
	return NewSSEHandlers(createTestDashboard(fullTable()), testLogger())
}

func TestNewSSEHandlers(t *testing.T) {
	dash := createTestDashboard(fullTable())
	logger := testLogger()

	handlers := NewSSEHandlers(dash, logger)

	if handlers == nil {
		t.Fatal("NewSSEHandlers() returned nil")
	}
	if handlers.dash != dash {
		t.Error("NewSSEHandlers() should set dash field")
	}
	if handlers.logger != logger {
		t.Error("NewSSEHandlers() should set logger field")
	}
}

func TestSSEHandlers_renderKPICards(t *testing.T) {
	handlers := createSSEHandlers()

	kpis := &analytics.KPISet{
		TotalSales:   1250,
		AverageSales: fptr(62.5),
		RowCount:     20,
		TopItemType:  &analytics.KPIShare{Key: "Dairy", Total: 800, SharePct: fptr(64)},
	}

	html, err := handlers.renderKPICards(kpis)
	if err != nil {
		t.Fatalf("renderKPICards() failed: %v", err)
	}

	expectedContent := []string{
		`id="kpi-cards"`,
		"Total Sales",
		"$1250.00",
		"20 rows",
		"Avg Sales / Item",
		"$62.50",
		"Top Category",
		"Dairy",
		"64.00% of total",
	}
	for _, content := range expectedContent {
		if !strings.Contains(html, content) {
			t.Errorf("expected HTML to contain %q", content)
		}
	}

	// No outlet column bound means no card for it
	if strings.Contains(html, "Best Outlet") {
		t.Error("expected no Best Outlet card when the share is absent")
	}
}

func TestSSEHandlers_renderKPICards_NoAverage(t *testing.T) {
	handlers := createSSEHandlers()

	kpis := &analytics.KPISet{TotalSales: 0, RowCount: 0}

	html, err := handlers.renderKPICards(kpis)
	if err != nil {
		t.Fatalf("renderKPICards() failed: %v", err)
	}
	if !strings.Contains(html, "n/a") {
		t.Error("expected 'n/a' average when no numeric values exist")
	}
}

func TestSSEHandlers_HandleKPIs(t *testing.T) {
	handlers := createSSEHandlers()

	req := httptest.NewRequest(http.MethodGet, "/sse/kpis", nil)
	w := httptest.NewRecorder()

	handlers.HandleKPIs(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	// Check SSE headers (DataStar sets these)
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("expected content-type to contain 'text/event-stream', got %q", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("expected cache-control 'no-cache', got %q", cc)
	}

	body := w.Body.String()
	if body == "" {
		t.Error("response should not be empty")
	}

	// The DataStar library formats SSE events; check the patched fragment
	// and the signal payload both made it into the stream
	if !strings.Contains(body, "kpi-cards") {
		t.Error("response should contain the kpi-cards fragment")
	}
	if !strings.Contains(body, "Total Sales") {
		t.Error("response should contain the Total Sales card")
	}
	if !strings.Contains(body, "total_sales") {
		t.Error("response should contain the kpis signal payload")
	}
}

func TestSSEHandlers_HandleCharts(t *testing.T) {
	handlers := createSSEHandlers()

	req := httptest.NewRequest(http.MethodGet, "/sse/charts", nil)
	w := httptest.NewRecorder()

	handlers.HandleCharts(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "sales-trend") {
		t.Error("response should contain chart specs in the signal payload")
	}
	if !strings.Contains(body, "charts-status") {
		t.Error("response should contain the charts-status fragment")
	}
	if !strings.Contains(body, "9 charts loaded") {
		t.Error("response should report all charts loaded for a complete dataset")
	}
}

func TestSSEHandlers_HandleRefreshAll(t *testing.T) {
	handlers := createSSEHandlers()

	req := httptest.NewRequest(http.MethodGet, "/sse/refresh-all", nil)
	w := httptest.NewRecorder()

	handlers.HandleRefreshAll(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("expected content-type to contain 'text/event-stream', got %q", ct)
	}

	body := w.Body.String()
	expectedContent := []string{"kpi-cards", "total_sales", "sales-trend", "chartErrors"}
	for _, content := range expectedContent {
		if !strings.Contains(body, content) {
			t.Errorf("expected SSE stream to contain %q", content)
		}
	}
}

func TestSSEHandlers_DatasetNotLoaded(t *testing.T) {
	handlers := NewSSEHandlers(createTestDashboard(nil), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/kpis", nil)
	w := httptest.NewRecorder()

	handlers.HandleKPIs(w, req)

	// The stream opens but no fragments are patched
	if strings.Contains(w.Body.String(), "kpi-cards") {
		t.Error("expected no kpi-cards fragment before the dataset loads")
	}
}
