package charts

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"retail-dashboard/internal/analytics"
	"retail-dashboard/internal/dataset"
)

// Frequency is the calendar bucket size for trend charts.
type Frequency string

const (
	FreqMonth   Frequency = "month"
	FreqQuarter Frequency = "quarter"
	FreqYear    Frequency = "year"
)

// ParseFrequency maps a config string to a Frequency, defaulting to
// monthly buckets.
func ParseFrequency(s string) Frequency {
	switch Frequency(s) {
	case FreqQuarter:
		return FreqQuarter
	case FreqYear:
		return FreqYear
	default:
		return FreqMonth
	}
}

func bucketLabel(ts time.Time, freq Frequency) string {
	switch freq {
	case FreqQuarter:
		return fmt.Sprintf("%d-Q%d", ts.Year(), (int(ts.Month())-1)/3+1)
	case FreqYear:
		return ts.Format("2006")
	default:
		return ts.Format("2006-01")
	}
}

// Trend charts the measure over time, degrading through three levels:
// calendar buckets of an explicit date column, then sums per
// establishment year, then the raw row order when no time axis exists
// at all. The weakest level carries a note so the page can say what it
// is showing.
func Trend(t *dataset.Table, measure, dateCol, yearCol string, freq Frequency, title string) (*Spec, error) {
	if err := checkColumns(t, measure); err != nil {
		return nil, err
	}

	if dateCol != "" && t.HasColumn(dateCol) {
		if spec, ok := trendByDate(t, measure, dateCol, freq, title); ok {
			return spec, nil
		}
	}
	if yearCol != "" && t.HasColumn(yearCol) {
		return trendByYear(t, measure, yearCol, title)
	}
	return trendByRow(t, measure, title)
}

func trendByDate(t *dataset.Table, measure, dateCol string, freq Frequency, title string) (*Spec, bool) {
	times, valid, _ := t.Times(dateCol)
	vals, _ := t.Numeric(measure)

	sums := make(map[string]float64)
	parsed := 0
	for i := range times {
		if !valid[i] {
			continue
		}
		parsed++
		label := bucketLabel(times[i], freq)
		v := vals[i]
		if math.IsNaN(v) {
			v = 0
		}
		sums[label] += v
	}
	if parsed == 0 {
		return nil, false
	}

	labels := make([]string, 0, len(sums))
	for label := range sums {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	s := Series{Name: measure, Color: paletteColor(0), Points: make([]Point, 0, len(labels))}
	for _, label := range labels {
		s.Points = append(s.Points, Point{Label: label, Y: sums[label]})
	}

	spec := &Spec{
		Kind:   KindLine,
		Title:  title,
		XAxis:  Axis{Title: dateCol},
		YAxis:  Axis{Title: measure},
		Series: []Series{s},
	}
	applyLayout(spec)
	return spec, true
}

func trendByYear(t *dataset.Table, measure, yearCol, title string) (*Spec, error) {
	groups, err := analytics.RankedGroups(t, yearCol, measure, 0)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(groups, func(i, j int) bool {
		a, aerr := strconv.ParseFloat(groups[i].Key, 64)
		b, berr := strconv.ParseFloat(groups[j].Key, 64)
		if aerr == nil && berr == nil {
			return a < b
		}
		return groups[i].Key < groups[j].Key
	})

	spec := &Spec{
		Kind:   KindLine,
		Title:  title,
		XAxis:  Axis{Title: yearCol},
		YAxis:  Axis{Title: measure},
		Series: []Series{seriesFromGroups(measure, groups, paletteColor(0))},
	}
	applyLayout(spec)
	return spec, nil
}

func trendByRow(t *dataset.Table, measure, title string) (*Spec, error) {
	vals, _ := t.Numeric(measure)
	s := Series{Name: measure, Color: paletteColor(0), Points: make([]Point, 0, len(vals))}
	for i, v := range vals {
		if math.IsNaN(v) {
			v = 0
		}
		s.Points = append(s.Points, Point{X: float64(i), Y: v})
	}
	spec := &Spec{
		Kind:   KindLine,
		Title:  title,
		XAxis:  Axis{Title: "Row"},
		YAxis:  Axis{Title: measure},
		Series: []Series{s},
		Note:   "no date column found, values shown in row order",
	}
	applyLayout(spec)
	return spec, nil
}

// Distribution bins a numeric column into equal-width bars, with the
// quartiles overlaid as labeled reference lines when requested.
func Distribution(t *dataset.Table, col string, bins int, quartiles bool, title string) (*Spec, error) {
	vals, ok := t.Numeric(col)
	if !ok {
		return nil, &analytics.SchemaError{Missing: []string{col}}
	}

	hist := analytics.HistogramOf(vals, bins)
	s := Series{Name: col, Color: paletteColor(0), Points: make([]Point, 0, len(hist.Counts))}
	for i, count := range hist.Counts {
		lo, hi := hist.Edges[i], hist.Edges[i+1]
		s.Points = append(s.Points, Point{
			Label: fmt.Sprintf("%.1f-%.1f", lo, hi),
			X:     (lo + hi) / 2,
			Y:     float64(count),
		})
	}

	spec := &Spec{
		Kind:   KindHistogram,
		Title:  title,
		XAxis:  Axis{Title: col},
		YAxis:  Axis{Title: "Count"},
		Series: []Series{s},
	}
	if len(hist.Counts) == 0 {
		spec.Note = "no numeric data"
	} else if quartiles {
		qs := analytics.Quantiles(vals, 0.25, 0.5, 0.75)
		spec.Markers = []Marker{
			{Label: "Q1", Value: qs[0]},
			{Label: "Median", Value: qs[1]},
			{Label: "Q3", Value: qs[2]},
		}
	}
	applyLayout(spec)
	return spec, nil
}

// RankedBar charts group sums in ranked order. The ranked order is
// emitted as the explicit category order so renderers cannot re-sort
// alphabetically.
func RankedBar(t *dataset.Table, groupKey, measure string, limit int, horizontal bool, title string) (*Spec, error) {
	groups, err := analytics.RankedGroups(t, groupKey, measure, limit)
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(groups))
	for _, g := range groups {
		categories = append(categories, displayKey(g.Key))
	}

	spec := &Spec{
		Kind:   KindBar,
		Title:  title,
		Series: []Series{seriesFromGroups(measure, groups, paletteColor(0))},
	}
	if horizontal {
		spec.Orientation = "h"
		spec.XAxis = Axis{Title: measure}
		spec.YAxis = Axis{Title: groupKey, Categories: categories}
	} else {
		spec.Orientation = "v"
		spec.XAxis = Axis{Title: groupKey, Categories: categories}
		spec.YAxis = Axis{Title: measure}
	}
	if len(groups) == 0 {
		spec.Note = "no data"
	}
	applyLayout(spec)
	return spec, nil
}

// Proportion is a donut of each group's share of the measure. Labels and
// percentages always render; the hole size is fixed.
func Proportion(t *dataset.Table, groupKey, measure, title string) (*Spec, error) {
	groups, err := analytics.RankedGroups(t, groupKey, measure, 0)
	if err != nil {
		return nil, err
	}

	spec := &Spec{
		Kind:   KindDonut,
		Title:  title,
		Hole:   0.5,
		Series: []Series{seriesFromGroups(measure, groups, "")},
	}
	if len(groups) == 0 {
		spec.Note = "no data"
	}
	applyLayout(spec)
	return spec, nil
}

// Scatter plots two numeric columns. A color column splits the points
// into one series per category when it exists and is silently ignored
// when it does not. Hover columns attach row context, included only when
// every named column is present. Rows where either coordinate is not
// numeric are dropped.
func Scatter(t *dataset.Table, x, y, color string, hover []string, title string) (*Spec, error) {
	if err := checkColumns(t, x, y); err != nil {
		return nil, err
	}
	xs, _ := t.Numeric(x)
	ys, _ := t.Numeric(y)

	var colorKeys []string
	if color != "" {
		colorKeys, _ = t.Strings(color)
	}
	var hoverCols [][]string
	if allPresent(t, hover) {
		for _, h := range hover {
			cells, _ := t.Strings(h)
			hoverCols = append(hoverCols, cells)
		}
	}

	index := make(map[string]int, 8)
	series := make([]Series, 0, 8)
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		name := y
		if colorKeys != nil {
			name = displayKey(colorKeys[i])
		}
		j, seen := index[name]
		if !seen {
			j = len(series)
			index[name] = j
			series = append(series, Series{Name: name, Color: paletteColor(j)})
		}
		p := Point{X: xs[i], Y: ys[i]}
		for k, cells := range hoverCols {
			if p.Text != "" {
				p.Text += ", "
			}
			p.Text += hover[k] + ": " + cells[i]
		}
		series[j].Points = append(series[j].Points, p)
	}

	spec := &Spec{
		Kind:   KindScatter,
		Title:  title,
		XAxis:  Axis{Title: x},
		YAxis:  Axis{Title: y},
		Series: series,
	}
	if len(series) == 0 {
		spec.Note = "no data"
	}
	applyLayout(spec)
	return spec, nil
}

// Box draws a five-number box per group, partitions in file order. The y
// axis switches to log scale on request, which suits long-tailed sales
// values.
func Box(t *dataset.Table, groupKey, measure string, logY bool, title string) (*Spec, error) {
	stats, err := analytics.BoxByGroup(t, groupKey, measure)
	if err != nil {
		return nil, err
	}

	boxes := make([]BoxSeries, 0, len(stats))
	for i, st := range stats {
		boxes = append(boxes, BoxSeries{
			Name:       displayKey(st.Key),
			WhiskerLow: st.WhiskerLow,
			Q1:         st.Q1,
			Median:     st.Median,
			Q3:         st.Q3,
			WhiskerHi:  st.WhiskerHi,
			Count:      st.Count,
			Color:      paletteColor(i),
		})
	}

	spec := &Spec{
		Kind:  KindBox,
		Title: title,
		XAxis: Axis{Title: groupKey},
		YAxis: Axis{Title: measure},
		Boxes: boxes,
	}
	if logY {
		spec.YAxis.Type = "log"
	}
	if len(boxes) == 0 {
		spec.Note = "no data"
	}
	applyLayout(spec)
	return spec, nil
}

// Heatmap renders the correlation matrix with a fixed [-1, 1] color
// domain and the coefficient printed in each cell.
func Heatmap(t *dataset.Table, cols []string, title string) (*Spec, error) {
	m, err := analytics.CorrelationMatrix(t, cols)
	if err != nil {
		return nil, err
	}

	spec := &Spec{
		Kind:  KindHeatmap,
		Title: title,
		Matrix: &Matrix{
			Columns:    m.Columns,
			Values:     m.Values,
			ZMin:       -1,
			ZMax:       1,
			Palette:    "RdBu",
			ShowValues: true,
		},
	}
	applyLayout(spec)
	return spec, nil
}

func checkColumns(t *dataset.Table, names ...string) error {
	var m []string
	for _, name := range names {
		if !t.HasColumn(name) {
			m = append(m, name)
		}
	}
	if len(m) > 0 {
		return &analytics.SchemaError{Missing: m}
	}
	return nil
}

func allPresent(t *dataset.Table, names []string) bool {
	if len(names) == 0 {
		return false
	}
	for _, name := range names {
		if !t.HasColumn(name) {
			return false
		}
	}
	return true
}
