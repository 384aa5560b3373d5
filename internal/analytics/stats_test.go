package analytics

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"retail-dashboard/internal/dataset"
)

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	tests := []struct {
		name string
		q    float64
		want float64
	}{
		{"minimum", 0, 1},
		{"maximum", 1, 4},
		{"first quartile", 0.25, 1.75},
		{"median", 0.5, 2.5},
		{"third quartile", 0.75, 3.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Quantile(sorted, tt.q)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Quantile(%v) = %v, want %v", tt.q, got, tt.want)
			}
		})
	}
}

func TestQuantile_DegenerateInputs(t *testing.T) {
	if got := Quantile(nil, 0.5); !math.IsNaN(got) {
		t.Errorf("Quantile(empty) = %v, want NaN", got)
	}
	if got := Quantile([]float64{7}, 0.99); got != 7 {
		t.Errorf("Quantile(single) = %v, want 7", got)
	}
}

func TestQuantiles_FiltersNaNAndSorts(t *testing.T) {
	nan := math.NaN()
	values := []float64{4, nan, 1, 3, nan, 2}

	got := Quantiles(values, 0, 0.5, 1)
	want := []float64{1, 2.5, 4}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Quantiles() mismatch (-want +got):\n%s", diff)
	}
}

func TestHistogramOf(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	h := HistogramOf(values, 3)

	wantEdges := []float64{1, 4, 7, 10}
	if diff := cmp.Diff(wantEdges, h.Edges); diff != "" {
		t.Errorf("Edges mismatch (-want +got):\n%s", diff)
	}
	// The last bin is closed, so 10 lands in it rather than overflowing
	wantCounts := []int{3, 3, 4}
	if diff := cmp.Diff(wantCounts, h.Counts); diff != "" {
		t.Errorf("Counts mismatch (-want +got):\n%s", diff)
	}
}

func TestHistogramOf_CountsConserveRows(t *testing.T) {
	nan := math.NaN()
	values := []float64{5, 1, nan, 9, 2.5, nan, 7, 3}

	h := HistogramOf(values, 4)

	total := 0
	for _, c := range h.Counts {
		total += c
	}
	if total != 6 {
		t.Errorf("histogram counts sum to %d, want 6 numeric cells", total)
	}
}

func TestHistogramOf_EmptyColumn(t *testing.T) {
	h := HistogramOf([]float64{math.NaN(), math.NaN()}, 5)

	if len(h.Edges) != 0 || len(h.Counts) != 0 {
		t.Errorf("HistogramOf() with no numeric cells = %+v, want empty", h)
	}
}

func TestHistogramOf_ConstantColumn(t *testing.T) {
	h := HistogramOf([]float64{5, 5, 5}, 10)

	if diff := cmp.Diff([]float64{4.5, 5.5}, h.Edges); diff != "" {
		t.Errorf("Edges mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{3}, h.Counts); diff != "" {
		t.Errorf("Counts mismatch (-want +got):\n%s", diff)
	}
}

func TestHistogramOf_BinsFloor(t *testing.T) {
	h := HistogramOf([]float64{1, 2}, 0)

	if len(h.Counts) != 1 {
		t.Errorf("bins below 1 should clamp to a single bin, got %d", len(h.Counts))
	}
}

func TestBoxByGroup(t *testing.T) {
	tbl := dataset.New(
		[]string{"outlet", "sales"},
		[][]string{
			{"A", "A", "A", "A", "A", "B", "B"},
			{"1", "2", "3", "4", "100", "10", "oops"},
		},
	)

	got, err := BoxByGroup(tbl, "outlet", "sales")
	if err != nil {
		t.Fatalf("BoxByGroup() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	a := got[0]
	if a.Key != "A" || a.Count != 5 {
		t.Fatalf("first partition = %+v, want key A with 5 points", a)
	}
	if a.Q1 != 2 || a.Median != 3 || a.Q3 != 4 {
		t.Errorf("quartiles = %v/%v/%v, want 2/3/4", a.Q1, a.Median, a.Q3)
	}
	// 100 sits past the upper fence, so the whisker clips to 4
	if a.WhiskerLow != 1 || a.WhiskerHi != 4 {
		t.Errorf("whiskers = %v/%v, want 1/4", a.WhiskerLow, a.WhiskerHi)
	}

	b := got[1]
	if b.Key != "B" || b.Count != 1 {
		t.Errorf("second partition = %+v, want key B with 1 point", b)
	}
	if b.Median != 10 {
		t.Errorf("single-point median = %v, want 10", b.Median)
	}
}

func TestBoxByGroup_DropsEmptyPartitions(t *testing.T) {
	tbl := dataset.New(
		[]string{"outlet", "sales"},
		[][]string{
			{"A", "B", "A"},
			{"10", "broken", "20"},
		},
	)

	got, err := BoxByGroup(tbl, "outlet", "sales")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Key != "A" {
		t.Errorf("partitions = %+v, want only A", got)
	}
}

func TestBoxByGroup_MissingColumns(t *testing.T) {
	tbl := dataset.New([]string{"a"}, [][]string{{"1"}})

	_, err := BoxByGroup(tbl, "outlet", "sales")
	if err == nil {
		t.Error("BoxByGroup() with missing columns should error")
	}
}

func TestDescribe(t *testing.T) {
	tbl := dataset.New(
		[]string{"sales", "outlet"},
		[][]string{
			{"2", "4", "6", ""},
			{"A", "B", "A", "A"},
		},
	)

	got := Describe(tbl)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	sales := got[0]
	if sales.Name != "sales" || sales.Rows != 4 {
		t.Errorf("summary = %+v, want sales over 4 rows", sales)
	}
	if sales.Missing != 1 {
		t.Errorf("Missing = %d, want 1", sales.Missing)
	}
	if sales.Mean != 4 {
		t.Errorf("Mean = %v, want 4", sales.Mean)
	}
	if sales.Std != 2 {
		t.Errorf("Std = %v, want 2", sales.Std)
	}
	if sales.Min != 2 || sales.Max != 6 {
		t.Errorf("Min/Max = %v/%v, want 2/6", sales.Min, sales.Max)
	}

	outlet := got[1]
	if outlet.Distinct != 2 {
		t.Errorf("Distinct = %d, want 2", outlet.Distinct)
	}
	if outlet.Kind != string(dataset.KindCategorical) {
		t.Errorf("Kind = %q, want categorical", outlet.Kind)
	}
}
