package analytics

import (
	"math"
	"slices"
	"strings"

	"retail-dashboard/internal/dataset"
)

// SchemaError reports columns an operation needed but the table lacks.
// Callers distinguish it from data-quality degradation: absent columns
// fail loudly, bad cells are skipped silently.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing columns: " + strings.Join(e.Missing, ", ")
}

func missing(t *dataset.Table, names ...string) *SchemaError {
	var m []string
	for _, name := range names {
		if !t.HasColumn(name) {
			m = append(m, name)
		}
	}
	if len(m) == 0 {
		return nil
	}
	return &SchemaError{Missing: m}
}

// GroupSum is one partition of a group-by: the key, the sum of the
// measure over the partition's numeric cells, and the full row count of
// the partition. Rows whose measure cell is not numeric still belong to
// the partition, they just contribute nothing to the sum.
type GroupSum struct {
	Key   string  `json:"key"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// Total sums the measure column. Cells that are empty or non-numeric are
// excluded; an empty table sums to zero.
func Total(t *dataset.Table, measure string) (float64, error) {
	nums, ok := t.Numeric(measure)
	if !ok {
		return 0, &SchemaError{Missing: []string{measure}}
	}
	sum := 0.0
	for _, v := range nums {
		if !math.IsNaN(v) {
			sum += v
		}
	}
	return sum, nil
}

// Average is the mean of the measure's numeric cells. When no cell is
// numeric the result is NaN, the caller-visible "no data" sentinel.
func Average(t *dataset.Table, measure string) (float64, error) {
	nums, ok := t.Numeric(measure)
	if !ok {
		return 0, &SchemaError{Missing: []string{measure}}
	}
	sum, n := 0.0, 0
	for _, v := range nums {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN(), nil
	}
	return sum / float64(n), nil
}

// groupSums partitions rows by key in first-seen order. An empty key is a
// partition of its own.
func groupSums(keys []string, vals []float64) []GroupSum {
	index := make(map[string]int, 16)
	out := make([]GroupSum, 0, 16)
	for i, k := range keys {
		j, ok := index[k]
		if !ok {
			j = len(out)
			index[k] = j
			out = append(out, GroupSum{Key: k})
		}
		out[j].Count++
		if v := vals[i]; !math.IsNaN(v) {
			out[j].Total += v
		}
	}
	return out
}

// TopGroup returns the partition with the largest measure sum. Ties keep
// the partition that appeared first in the file. A table with no rows
// returns nil rather than an error.
func TopGroup(t *dataset.Table, groupKey, measure string) (*GroupSum, error) {
	if err := missing(t, groupKey, measure); err != nil {
		return nil, err
	}
	keys, _ := t.Strings(groupKey)
	vals, _ := t.Numeric(measure)

	groups := groupSums(keys, vals)
	if len(groups) == 0 {
		return nil, nil
	}
	best := groups[0]
	for _, g := range groups[1:] {
		if g.Total > best.Total {
			best = g
		}
	}
	return &best, nil
}

// RankedGroups returns every partition sorted by sum descending. The sort
// is stable over first-seen order, so equal sums keep file order and the
// result doubles as the categorical axis order. A limit of zero or less
// means no truncation.
func RankedGroups(t *dataset.Table, groupKey, measure string, limit int) ([]GroupSum, error) {
	if err := missing(t, groupKey, measure); err != nil {
		return nil, err
	}
	keys, _ := t.Strings(groupKey)
	vals, _ := t.Numeric(measure)

	groups := groupSums(keys, vals)
	slices.SortStableFunc(groups, func(a, b GroupSum) int {
		if a.Total > b.Total {
			return -1
		}
		if a.Total < b.Total {
			return 1
		}
		return 0
	})
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups, nil
}

// CorrMatrix is a symmetric Pearson correlation matrix over the named
// columns, every cell rounded to two decimals.
type CorrMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// CorrelationMatrix computes pairwise Pearson correlations over the
// requested columns that exist in the table; requesting only absent
// columns is a schema error. Each pair is computed over the rows where
// both cells are numeric. Results clamp to [-1, 1]; a pair without
// variance reports 0.
func CorrelationMatrix(t *dataset.Table, measures []string) (*CorrMatrix, error) {
	var present []string
	var cols [][]float64
	for _, name := range measures {
		if nums, ok := t.Numeric(name); ok {
			present = append(present, name)
			cols = append(cols, nums)
		}
	}
	if len(present) == 0 {
		return nil, &SchemaError{Missing: measures}
	}

	n := len(present)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := pearson(cols[i], cols[j])
			if math.IsNaN(r) || math.IsInf(r, 0) {
				r = 0
			}
			r = RoundTo2(clamp(r, -1, 1))
			values[i][j] = r
			values[j][i] = r
		}
	}
	return &CorrMatrix{Columns: present, Values: values}, nil
}

// pearson runs the one-pass product-moment formula over the rows where
// both cells are numeric. Fewer than two shared rows, or zero variance on
// either side, yields NaN.
func pearson(x, y []float64) float64 {
	var n, sx, sy, sxx, syy, sxy float64
	for k := range x {
		a, b := x[k], y[k]
		if math.IsNaN(a) || math.IsNaN(b) {
			continue
		}
		n++
		sx += a
		sy += b
		sxx += a * a
		syy += b * b
		sxy += a * b
	}
	if n < 2 {
		return math.NaN()
	}
	den := math.Sqrt((n*sxx - sx*sx) * (n*syy - sy*sy))
	if den == 0 {
		return math.NaN()
	}
	return (n*sxy - sx*sy) / den
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RoundTo2 rounds to two decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
