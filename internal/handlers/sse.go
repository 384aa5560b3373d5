package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"retail-dashboard/internal/analytics"
	"retail-dashboard/internal/dashboard"
)

var kpiCardsTemplate = template.Must(template.New("kpiCards").Parse(`
<div id="kpi-cards" class="kpi-grid">
{{range .Cards}}<div class="kpi-card">
<span class="kpi-label">{{.Label}}</span>
<strong class="kpi-value">{{.Value}}</strong>
{{if .Delta}}<span class="kpi-delta">{{.Delta}}</span>{{end}}
</div>
{{end}}</div>`))

type kpiCard struct {
	Label string
	Value string
	Delta string
}

type kpiCardsView struct {
	Cards []kpiCard
}

func kpiView(kpis *analytics.KPISet) kpiCardsView {
	cards := []kpiCard{
		{
			Label: "Total Sales",
			Value: fmt.Sprintf("$%.2f", kpis.TotalSales),
			Delta: fmt.Sprintf("%d rows", kpis.RowCount),
		},
	}

	avg := kpiCard{Label: "Avg Sales / Item", Value: "n/a"}
	if kpis.AverageSales != nil {
		avg.Value = fmt.Sprintf("$%.2f", *kpis.AverageSales)
	}
	cards = append(cards, avg)

	if s := kpis.TopItemType; s != nil {
		card := kpiCard{Label: "Top Category", Value: s.Key}
		if s.SharePct != nil {
			card.Delta = fmt.Sprintf("%.2f%% of total", *s.SharePct)
		}
		cards = append(cards, card)
	}
	if s := kpis.BestOutlet; s != nil {
		card := kpiCard{Label: "Best Outlet", Value: s.Key}
		if s.SharePct != nil {
			card.Delta = fmt.Sprintf("%.2f%% of total", *s.SharePct)
		}
		cards = append(cards, card)
	}
	return kpiCardsView{Cards: cards}
}

type SSEHandlers struct {
	dash   *dashboard.Dashboard
	logger *slog.Logger
}

func NewSSEHandlers(dash *dashboard.Dashboard, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dash:   dash,
		logger: logger,
	}
}

func (h *SSEHandlers) renderKPICards(kpis *analytics.KPISet) (string, error) {
	var buf strings.Builder
	err := kpiCardsTemplate.Execute(&buf, kpiView(kpis))
	return buf.String(), err
}

func (h *SSEHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	kpis, err := h.dash.KPIs()
	if err != nil {
		h.logger.Error("build kpis", "error", err)
		return
	}

	html, err := h.renderKPICards(kpis)
	if err != nil {
		h.logger.Error("render kpi cards", "error", err)
		return
	}
	sse.PatchElements(html)

	jsonData, err := json.Marshal(map[string]any{
		"kpis": kpis,
	})
	if err != nil {
		h.logger.Error("marshal kpis", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleCharts(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	specs, failed, err := h.dash.Charts()
	if err != nil {
		h.logger.Error("build charts", "error", err)
		return
	}
	for name, msg := range failed {
		h.logger.Warn("chart unavailable", "chart", name, "reason", msg)
	}

	jsonData, err := json.Marshal(map[string]any{
		"charts":      specs,
		"chartErrors": failed,
	})
	if err != nil {
		h.logger.Error("marshal chart specs", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	sse.PatchElements(fmt.Sprintf(`<div id="charts-status">%d charts loaded</div>`, len(specs)))

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	kpis, err := h.dash.KPIs()
	if err != nil {
		h.logger.Error("build kpis", "error", err)
		return
	}
	html, err := h.renderKPICards(kpis)
	if err != nil {
		h.logger.Error("render kpi cards", "error", err)
		return
	}
	sse.PatchElements(html)

	specs, failed, err := h.dash.Charts()
	if err != nil {
		h.logger.Error("build charts", "error", err)
		return
	}

	// Send every signal in one call
	allSignals, err := json.Marshal(map[string]any{
		"kpis":        kpis,
		"charts":      specs,
		"chartErrors": failed,
	})
	if err != nil {
		h.logger.Error("marshal refresh signals", "error", err)
		return
	}
	sse.PatchSignals(allSignals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
