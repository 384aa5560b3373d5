// Package templates renders the dashboard page. Components are built on
// the templ runtime so the handler side stays identical whether a
// component is hand-written or generated.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard is the full page: KPI cards fed over SSE, one container per
// chart hydrated from the JSON API by the inline adapter script.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardPage)
		return err
	})
}

const dashboardPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Retail Sales Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/npm/@starfederation/datastar@1.0.2/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/plotly.js-dist-min@2.35.2/plotly.min.js"></script>
<style>
:root { --border: #e5e7eb; --muted: #6b7280; --accent: #3b82f6; }
* { box-sizing: border-box; }
body { margin: 0; font-family: system-ui, -apple-system, sans-serif; background: #f9fafb; color: #111827; }
header { display: flex; align-items: center; justify-content: space-between; padding: 16px 24px; background: #fff; border-bottom: 1px solid var(--border); }
header h1 { margin: 0; font-size: 20px; }
header button { border: 1px solid var(--border); background: #fff; border-radius: 6px; padding: 8px 14px; cursor: pointer; }
header button:hover { border-color: var(--accent); color: var(--accent); }
main { max-width: 1200px; margin: 0 auto; padding: 24px; }
section { margin-bottom: 28px; }
section h2 { font-size: 15px; color: var(--muted); text-transform: uppercase; letter-spacing: 0.04em; margin: 0 0 12px; }
.kpi-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(220px, 1fr)); gap: 16px; }
.kpi-card { background: #fff; border: 1px solid var(--border); border-radius: 8px; padding: 16px; display: flex; flex-direction: column; gap: 4px; }
.kpi-label { font-size: 12px; color: var(--muted); text-transform: uppercase; letter-spacing: 0.04em; }
.kpi-value { font-size: 22px; }
.kpi-delta { font-size: 12px; color: #059669; }
.chart-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; }
.chart-panel { background: #fff; border: 1px solid var(--border); border-radius: 8px; padding: 8px; min-height: 320px; }
.chart-panel.wide { grid-column: 1 / -1; }
.chart-note { font-size: 12px; color: var(--muted); padding: 4px 8px; }
footer { text-align: center; color: var(--muted); font-size: 12px; padding: 24px; }
#charts-status { display: none; }
@media (max-width: 800px) { .chart-grid { grid-template-columns: 1fr; } }
</style>
</head>
<body>
<header>
<h1>Retail Sales Dashboard</h1>
<button data-on-click="@get('/sse/refresh-all')" onclick="loadCharts()">Refresh</button>
</header>
<main>
<section id="kpis" data-on-load="@get('/sse/kpis')">
<h2>Key Figures</h2>
<div id="kpi-cards" class="kpi-grid"></div>
</section>
<section>
<h2>Trends</h2>
<div class="chart-grid">
<div class="chart-panel wide" data-chart="sales-trend"></div>
</div>
</section>
<section>
<h2>Pricing</h2>
<div class="chart-grid">
<div class="chart-panel wide" data-chart="price-distribution"></div>
</div>
</section>
<section>
<h2>Comparisons</h2>
<div class="chart-grid">
<div class="chart-panel wide" data-chart="sales-by-item-type"></div>
<div class="chart-panel" data-chart="sales-by-outlet-type"></div>
<div class="chart-panel" data-chart="sales-by-outlet-size"></div>
</div>
</section>
<section>
<h2>Proportions</h2>
<div class="chart-grid">
<div class="chart-panel wide" data-chart="location-share"></div>
</div>
</section>
<section>
<h2>Drivers &amp; Variability</h2>
<div class="chart-grid">
<div class="chart-panel" data-chart="visibility-vs-sales"></div>
<div class="chart-panel" data-chart="sales-spread"></div>
</div>
</section>
<section>
<h2>Advanced</h2>
<div class="chart-grid">
<div class="chart-panel wide" data-chart="correlation"></div>
</div>
</section>
<div id="charts-status"></div>
</main>
<footer>Data refreshes only on explicit reload.</footer>
<script>
` + adapterScript + `
</script>
</body>
</html>
`

// adapterScript maps chart specs onto Plotly. The layout block mirrors
// the server-side cosmetic contract field by field.
const adapterScript = `
function baseLayout(spec) {
  var l = spec.layout;
  var layout = {
    title: { text: spec.title, x: 0 },
    height: l.height,
    margin: { t: l.margin.t, r: l.margin.r, b: l.margin.b, l: l.margin.l },
    showlegend: l.show_legend,
    legend: { orientation: l.legend.orientation, x: l.legend.x, xanchor: l.legend.xanchor, y: l.legend.y, yanchor: l.legend.yanchor },
    hovermode: l.hover_mode,
    font: { size: l.font_size },
    paper_bgcolor: '#ffffff',
    plot_bgcolor: '#ffffff',
    xaxis: { title: { text: spec.x_axis.title } },
    yaxis: { title: { text: spec.y_axis.title } }
  };
  if (l.bar_gap) layout.bargap = l.bar_gap;
  if (spec.y_axis.type === 'log') layout.yaxis.type = 'log';
  if (spec.x_axis.categories) {
    layout.xaxis.categoryorder = 'array';
    layout.xaxis.categoryarray = spec.x_axis.categories;
  }
  if (spec.y_axis.categories) {
    layout.yaxis.categoryorder = 'array';
    layout.yaxis.categoryarray = spec.y_axis.categories.slice().reverse();
  }
  return layout;
}

function specTraces(spec) {
  var s = spec.series || [];
  switch (spec.kind) {
  case 'line':
    return s.map(function (sr) {
      var labeled = sr.points.length && sr.points[0].label;
      return {
        type: 'scatter', mode: 'lines', name: sr.name,
        x: sr.points.map(function (p, i) { return labeled ? p.label : p.x; }),
        y: sr.points.map(function (p) { return p.y; }),
        line: { color: sr.color }
      };
    });
  case 'histogram':
  case 'bar':
    return s.map(function (sr) {
      var labels = sr.points.map(function (p) { return p.label; });
      var values = sr.points.map(function (p) { return p.y; });
      var horizontal = spec.orientation === 'h';
      return {
        type: 'bar', name: sr.name,
        x: horizontal ? values : labels,
        y: horizontal ? labels : values,
        orientation: horizontal ? 'h' : 'v',
        marker: { color: sr.color || undefined }
      };
    });
  case 'donut':
    var sr = s[0] || { points: [] };
    return [{
      type: 'pie', hole: spec.hole,
      labels: sr.points.map(function (p) { return p.label; }),
      values: sr.points.map(function (p) { return p.y; }),
      textinfo: 'label+percent'
    }];
  case 'scatter':
    return s.map(function (sr) {
      return {
        type: 'scatter', mode: 'markers', name: sr.name,
        x: sr.points.map(function (p) { return p.x; }),
        y: sr.points.map(function (p) { return p.y; }),
        text: sr.points.map(function (p) { return p.text; }),
        marker: { color: sr.color, size: 6, opacity: 0.7 }
      };
    });
  case 'box':
    var boxes = spec.boxes || [];
    return [{
      type: 'box',
      x: boxes.map(function (b) { return b.name; }),
      q1: boxes.map(function (b) { return b.q1; }),
      median: boxes.map(function (b) { return b.median; }),
      q3: boxes.map(function (b) { return b.q3; }),
      lowerfence: boxes.map(function (b) { return b.whisker_low; }),
      upperfence: boxes.map(function (b) { return b.whisker_high; }),
      showlegend: false
    }];
  case 'heatmap':
    var m = spec.matrix;
    return [{
      type: 'heatmap',
      x: m.columns, y: m.columns, z: m.values,
      zmin: m.z_min, zmax: m.z_max,
      colorscale: m.palette,
      texttemplate: m.show_values ? '%{z}' : undefined
    }];
  default:
    return [];
  }
}

function renderSpec(el, spec) {
  var layout = baseLayout(spec);
  if (spec.markers) {
    layout.shapes = spec.markers.map(function (mk) {
      return { type: 'line', x0: mk.value, x1: mk.value, yref: 'paper', y0: 0, y1: 1, line: { dash: 'dash', width: 1 } };
    });
    layout.annotations = spec.markers.map(function (mk) {
      return { x: mk.value, yref: 'paper', y: 1, text: mk.label, showarrow: false, yanchor: 'bottom', font: { size: 10 } };
    });
  }
  Plotly.newPlot(el, specTraces(spec), layout, { displayModeBar: false, responsive: true });
  if (spec.note) {
    var note = document.createElement('div');
    note.className = 'chart-note';
    note.textContent = spec.note;
    el.appendChild(note);
  }
}

function loadCharts() {
  document.querySelectorAll('[data-chart]').forEach(function (el) {
    var name = el.getAttribute('data-chart');
    fetch('/api/charts/' + name)
      .then(function (res) { return res.json(); })
      .then(function (payload) {
        if (!payload.success) {
          el.innerHTML = '<div class="chart-note">' + (payload.error ? payload.error.message : 'unavailable') + '</div>';
          return;
        }
        el.innerHTML = '';
        renderSpec(el, payload.data);
      })
      .catch(function () {
        el.innerHTML = '<div class="chart-note">failed to load</div>';
      });
  });
}

document.addEventListener('DOMContentLoaded', loadCharts);
`
