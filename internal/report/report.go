// Package report renders a markdown inspection of a loaded dataset:
// shape, per-column summaries, headline KPIs, ranked groups, and the
// strongest correlations. The CLI prints it; nothing in the server
// depends on it.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"retail-dashboard/internal/analytics"
	"retail-dashboard/internal/dataset"
)

type Options struct {
	Path      string
	TopGroups int
}

func DefaultOptions() Options {
	return Options{TopGroups: 10}
}

// Markdown assembles the full report. Sections that need absent columns
// are skipped with a note rather than failing the whole document.
func Markdown(t *dataset.Table, schema dataset.Schema, opts Options) string {
	if opts.TopGroups <= 0 {
		opts.TopGroups = 10
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Dataset Report\n\n")
	if opts.Path != "" {
		fmt.Fprintf(&b, "- Source: `%s`\n", opts.Path)
	}
	fmt.Fprintf(&b, "- Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Rows: %d\n", t.Rows())
	fmt.Fprintf(&b, "- Columns: %d\n\n", len(t.ColumnNames()))

	writeValidation(&b, t, schema)
	writeColumns(&b, t)
	writeKPIs(&b, t, schema)
	writeGroups(&b, t, schema, opts.TopGroups)
	writeCorrelations(&b, t, schema)

	return b.String()
}

func writeValidation(b *strings.Builder, t *dataset.Table, schema dataset.Schema) {
	v := schema.Validate(t)
	fmt.Fprintf(b, "## Schema\n\n")
	if v.OK() && len(v.MissingOptional) == 0 {
		fmt.Fprintf(b, "All bound columns present.\n\n")
		return
	}
	if len(v.MissingRequired) > 0 {
		fmt.Fprintf(b, "- Missing required: %s\n", strings.Join(v.MissingRequired, ", "))
	}
	if len(v.MissingOptional) > 0 {
		fmt.Fprintf(b, "- Missing optional: %s\n", strings.Join(v.MissingOptional, ", "))
	}
	fmt.Fprintf(b, "\n")
}

func writeColumns(b *strings.Builder, t *dataset.Table) {
	fmt.Fprintf(b, "## Columns\n\n")
	fmt.Fprintf(b, "| Column | Kind | Missing | Distinct | Mean | Std | Min | Max |\n")
	fmt.Fprintf(b, "|---|---|---|---|---|---|---|---|\n")
	for _, s := range analytics.Describe(t) {
		if s.Kind == string(dataset.KindNumeric) {
			fmt.Fprintf(b, "| %s | %s | %d | %d | %.2f | %.2f | %.2f | %.2f |\n",
				s.Name, s.Kind, s.Missing, s.Distinct, s.Mean, s.Std, s.Min, s.Max)
			continue
		}
		fmt.Fprintf(b, "| %s | %s | %d | %d | | | | |\n", s.Name, s.Kind, s.Missing, s.Distinct)
	}
	fmt.Fprintf(b, "\n")
}

func writeKPIs(b *strings.Builder, t *dataset.Table, schema dataset.Schema) {
	fmt.Fprintf(b, "## Headline Figures\n\n")
	kpis, err := analytics.KPIs(t, schema)
	if err != nil {
		fmt.Fprintf(b, "Unavailable: %v\n\n", err)
		return
	}
	fmt.Fprintf(b, "- Total %s: %.2f\n", schema.Measure, kpis.TotalSales)
	if kpis.AverageSales != nil {
		fmt.Fprintf(b, "- Average per row: %.2f\n", *kpis.AverageSales)
	} else {
		fmt.Fprintf(b, "- Average per row: n/a (no numeric values)\n")
	}
	if s := kpis.TopItemType; s != nil {
		fmt.Fprintf(b, "- Top category: %s (%.2f", s.Key, s.Total)
		if s.SharePct != nil {
			fmt.Fprintf(b, ", %.2f%% of total", *s.SharePct)
		}
		fmt.Fprintf(b, ")\n")
	}
	if s := kpis.BestOutlet; s != nil {
		fmt.Fprintf(b, "- Best outlet: %s (%.2f", s.Key, s.Total)
		if s.SharePct != nil {
			fmt.Fprintf(b, ", %.2f%% of total", *s.SharePct)
		}
		fmt.Fprintf(b, ")\n")
	}
	fmt.Fprintf(b, "\n")
}

func writeGroups(b *strings.Builder, t *dataset.Table, schema dataset.Schema, limit int) {
	fmt.Fprintf(b, "## Top Groups\n\n")
	wrote := false
	for _, key := range []string{schema.ItemType, schema.OutletType, schema.Location} {
		if key == "" || !t.HasColumn(key) {
			continue
		}
		groups, err := analytics.RankedGroups(t, key, schema.Measure, limit)
		if err != nil {
			continue
		}
		wrote = true
		fmt.Fprintf(b, "### %s\n\n", key)
		fmt.Fprintf(b, "| %s | Sum | Rows |\n|---|---|---|\n", key)
		for _, g := range groups {
			label := g.Key
			if label == "" {
				label = "(missing)"
			}
			fmt.Fprintf(b, "| %s | %.2f | %d |\n", label, g.Total, g.Count)
		}
		fmt.Fprintf(b, "\n")
	}
	if !wrote {
		fmt.Fprintf(b, "No group columns present.\n\n")
	}
}

func writeCorrelations(b *strings.Builder, t *dataset.Table, schema dataset.Schema) {
	fmt.Fprintf(b, "## Correlations\n\n")
	m, err := analytics.CorrelationMatrix(t, schema.Correlates)
	if err != nil {
		fmt.Fprintf(b, "Unavailable: %v\n\n", err)
		return
	}

	type pair struct {
		a, b string
		r    float64
	}
	var pairs []pair
	for i := 0; i < len(m.Columns); i++ {
		for j := i + 1; j < len(m.Columns); j++ {
			pairs = append(pairs, pair{m.Columns[i], m.Columns[j], m.Values[i][j]})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].r) > math.Abs(pairs[j].r)
	})

	if len(pairs) == 0 {
		fmt.Fprintf(b, "Only one numeric column bound; nothing to correlate.\n\n")
		return
	}
	fmt.Fprintf(b, "| Pair | r |\n|---|---|\n")
	for _, p := range pairs {
		fmt.Fprintf(b, "| %s / %s | %.2f |\n", p.a, p.b, p.r)
	}
	fmt.Fprintf(b, "\n")
}
