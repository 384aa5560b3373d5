package analytics

import (
	"math"
	"sort"

	"retail-dashboard/internal/dataset"
)

// Quantile interpolates linearly between order statistics, the same
// convention spreadsheet and dataframe tools default to: position
// q*(n-1) within the sorted values. The input must be sorted ascending
// and free of NaN. An empty input yields NaN.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// dropNaN copies the numeric cells out of a NaN-coded column.
func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Quantiles filters NaN cells, sorts once, and evaluates each requested
// quantile.
func Quantiles(values []float64, qs ...float64) []float64 {
	clean := dropNaN(values)
	sort.Float64s(clean)
	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = Quantile(clean, q)
	}
	return out
}

// Histogram is an equal-width binning of a numeric column. Edges has one
// more entry than Counts; the last bin is closed on both sides.
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// HistogramOf bins the numeric cells of a column into the given number of
// equal-width bins. NaN cells are excluded. With no numeric cells the
// result has no bins; a column where every value is identical collapses
// to a single unit-width bin around it.
func HistogramOf(values []float64, bins int) Histogram {
	if bins < 1 {
		bins = 1
	}
	clean := dropNaN(values)
	if len(clean) == 0 {
		return Histogram{}
	}

	lo, hi := clean[0], clean[0]
	for _, v := range clean[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return Histogram{
			Edges:  []float64{lo - 0.5, lo + 0.5},
			Counts: []int{len(clean)},
		}
	}

	width := (hi - lo) / float64(bins)
	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi

	counts := make([]int, bins)
	for _, v := range clean {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	return Histogram{Edges: edges, Counts: counts}
}

// BoxStats is the five-number summary of one partition. Whiskers follow
// the 1.5*IQR rule but are clipped to observed values, so they never
// extend past real data.
type BoxStats struct {
	Key        string  `json:"key"`
	WhiskerLow float64 `json:"whisker_low"`
	Q1         float64 `json:"q1"`
	Median     float64 `json:"median"`
	Q3         float64 `json:"q3"`
	WhiskerHi  float64 `json:"whisker_high"`
	Count      int     `json:"count"`
}

// BoxByGroup computes a five-number summary per partition of the group
// key, partitions in first-seen order. Partitions with no numeric cells
// are dropped from the result.
func BoxByGroup(t *dataset.Table, groupKey, measure string) ([]BoxStats, error) {
	if err := missing(t, groupKey, measure); err != nil {
		return nil, err
	}
	keys, _ := t.Strings(groupKey)
	vals, _ := t.Numeric(measure)

	index := make(map[string]int, 16)
	order := make([]string, 0, 16)
	buckets := make(map[string][]float64, 16)
	for i, k := range keys {
		if _, seen := index[k]; !seen {
			index[k] = len(order)
			order = append(order, k)
		}
		if v := vals[i]; !math.IsNaN(v) {
			buckets[k] = append(buckets[k], v)
		}
	}

	out := make([]BoxStats, 0, len(order))
	for _, k := range order {
		points := buckets[k]
		if len(points) == 0 {
			continue
		}
		sort.Float64s(points)
		q1 := Quantile(points, 0.25)
		med := Quantile(points, 0.5)
		q3 := Quantile(points, 0.75)
		iqr := q3 - q1
		loFence := q1 - 1.5*iqr
		hiFence := q3 + 1.5*iqr

		whiskLow := points[len(points)-1]
		for _, v := range points {
			if v >= loFence {
				whiskLow = v
				break
			}
		}
		whiskHi := points[0]
		for i := len(points) - 1; i >= 0; i-- {
			if points[i] <= hiFence {
				whiskHi = points[i]
				break
			}
		}

		out = append(out, BoxStats{
			Key:        k,
			WhiskerLow: whiskLow,
			Q1:         q1,
			Median:     med,
			Q3:         q3,
			WhiskerHi:  whiskHi,
			Count:      len(points),
		})
	}
	return out, nil
}

// ColumnSummary is one row of the dataset inspection report.
type ColumnSummary struct {
	Name     string  `json:"name"`
	Kind     string  `json:"kind"`
	Rows     int     `json:"rows"`
	Missing  int     `json:"missing"`
	Distinct int     `json:"distinct"`
	Mean     float64 `json:"mean,omitempty"`
	Std      float64 `json:"std,omitempty"`
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
}

// Describe summarizes every column. Numeric moments come from Welford's
// update so a single pass suffices.
func Describe(t *dataset.Table) []ColumnSummary {
	cols := t.Columns()
	out := make([]ColumnSummary, 0, len(cols))
	for i := range cols {
		c := &cols[i]
		s := ColumnSummary{
			Name: c.Name,
			Kind: string(c.Kind),
			Rows: t.Rows(),
		}
		distinct := make(map[string]struct{}, 32)
		for _, cell := range c.Raw {
			if cell == "" {
				s.Missing++
				continue
			}
			distinct[cell] = struct{}{}
		}
		s.Distinct = len(distinct)

		var n, mean, m2 float64
		min, max := math.Inf(1), math.Inf(-1)
		for _, v := range c.Num {
			if math.IsNaN(v) {
				continue
			}
			n++
			delta := v - mean
			mean += delta / n
			m2 += delta * (v - mean)
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		if n > 0 {
			s.Mean = mean
			s.Min = min
			s.Max = max
			if n > 1 {
				s.Std = math.Sqrt(m2 / (n - 1))
			}
		}
		out = append(out, s)
	}
	return out
}
