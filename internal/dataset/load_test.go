package dataset

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "dataset*.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}

func tableFromCSV(t *testing.T, content string) *Table {
	t.Helper()
	tbl, err := ReadFrom(context.Background(), strings.NewReader(content))
	if err != nil {
		t.Fatalf("ReadFrom() failed: %v", err)
	}
	return tbl
}

func TestRead_ValidData(t *testing.T) {
	csv := `Item_Type,Item_MRP,Item_Outlet_Sales
Dairy,249.81,3735.14
Soft Drinks,48.27,443.42
Dairy,141.62,2097.27`

	f := createTempCSV(t, csv)
	defer os.Remove(f)

	tbl, err := Read(context.Background(), f)
	if err != nil {
		t.Fatalf("Read() with valid data should not error, got: %v", err)
	}

	if tbl.Rows() != 3 {
		t.Errorf("Rows() = %d, want 3", tbl.Rows())
	}

	wantNames := []string{"Item_Type", "Item_MRP", "Item_Outlet_Sales"}
	if diff := cmp.Diff(wantNames, tbl.ColumnNames()); diff != "" {
		t.Errorf("ColumnNames() mismatch (-want +got):\n%s", diff)
	}

	nums, ok := tbl.Numeric("Item_MRP")
	if !ok {
		t.Fatal("Numeric(Item_MRP) should find the column")
	}
	if nums[0] != 249.81 {
		t.Errorf("Item_MRP[0] = %v, want 249.81", nums[0])
	}
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(context.Background(), "/nonexistent/data.csv")
	if err == nil {
		t.Error("Read() with missing file should error")
	}
}

func TestRead_CancelledContext(t *testing.T) {
	csv := "a,b\n1,2\n"
	f := createTempCSV(t, csv)
	defer os.Remove(f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Read(ctx, f); err == nil {
		t.Error("Read() with cancelled context should error")
	}
}

func TestReadFrom_InvalidData(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr bool
	}{
		{
			name:    "empty file",
			csv:     "",
			wantErr: true,
		},
		{
			name:    "header only",
			csv:     "Item_Type,Item_MRP",
			wantErr: false,
		},
		{
			name:    "bare quote in cell",
			csv:     "a,b\n1,\"un\"closed\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFrom(context.Background(), strings.NewReader(tt.csv))
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadFrom() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadFrom_HeaderOnlyYieldsEmptyTable(t *testing.T) {
	tbl := tableFromCSV(t, "Item_Type,Item_MRP")

	if tbl.Rows() != 0 {
		t.Errorf("Rows() = %d, want 0", tbl.Rows())
	}
	if !tbl.HasColumn("Item_MRP") {
		t.Error("header columns should exist even with zero rows")
	}
}

func TestReadFrom_QuotedFields(t *testing.T) {
	csv := "Item_Type,Item_Outlet_Sales\n\"Fruits, Vegetables\",120.5\n"
	tbl := tableFromCSV(t, csv)

	cells, ok := tbl.Strings("Item_Type")
	if !ok {
		t.Fatal("Strings(Item_Type) should find the column")
	}
	if cells[0] != "Fruits, Vegetables" {
		t.Errorf("quoted cell = %q, want %q", cells[0], "Fruits, Vegetables")
	}
}

func TestReadFrom_RaggedRecords(t *testing.T) {
	// Second record is short, third is long
	csv := "a,b,c\n1,2,3\n4,5\n6,7,8,9\n"
	tbl := tableFromCSV(t, csv)

	if tbl.Rows() != 3 {
		t.Fatalf("Rows() = %d, want 3", tbl.Rows())
	}

	c, _ := tbl.Numeric("c")
	if !math.IsNaN(c[1]) {
		t.Errorf("padded cell should be NaN, got %v", c[1])
	}
	if c[2] != 8 {
		t.Errorf("long record should keep header-width cells, got c[2]=%v", c[2])
	}
}

func TestReadFrom_TrimsWhitespace(t *testing.T) {
	csv := " Item_Type , Item_MRP \n Dairy , 12.5 \n"
	tbl := tableFromCSV(t, csv)

	if !tbl.HasColumn("Item_MRP") {
		t.Error("header names should be trimmed")
	}
	nums, _ := tbl.Numeric("Item_MRP")
	if nums[0] != 12.5 {
		t.Errorf("trimmed cell should parse as 12.5, got %v", nums[0])
	}
}

func TestReadFrom_NonNumericCellsAreNaN(t *testing.T) {
	csv := "Item_Outlet_Sales\n100\nnot-a-number\n\n50\n"
	tbl := tableFromCSV(t, csv)

	nums, _ := tbl.Numeric("Item_Outlet_Sales")
	if nums[0] != 100 || nums[3] != 50 {
		t.Errorf("numeric cells should parse, got %v", nums)
	}
	if !math.IsNaN(nums[1]) {
		t.Error("text cell should be NaN")
	}
	if !math.IsNaN(nums[2]) {
		t.Error("empty cell should be NaN")
	}

	c, _ := tbl.Column("Item_Outlet_Sales")
	if c.NumericCount() != 2 {
		t.Errorf("NumericCount() = %d, want 2", c.NumericCount())
	}
}

func TestColumnKinds(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  Kind
	}{
		{"all numbers", []string{"1", "2.5", "3"}, KindNumeric},
		{"mostly numbers", []string{"1", "2", "x"}, KindNumeric},
		{"dates", []string{"2023-01-01", "2023-01-02", "2023-01-03"}, KindDatetime},
		{"few distinct labels", []string{"a", "b", "a"}, KindCategorical},
		{"all empty", []string{"", "", ""}, KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			sb.WriteString("col\n")
			for _, cell := range tt.cells {
				if strings.Contains(cell, ",") {
					sb.WriteString("\"" + cell + "\"\n")
					continue
				}
				sb.WriteString(cell + "\n")
			}
			tbl := tableFromCSV(t, sb.String())

			c, _ := tbl.Column("col")
			if c.Kind != tt.want {
				t.Errorf("Kind = %q, want %q", c.Kind, tt.want)
			}
		})
	}
}

func TestColumnKinds_HighCardinalityText(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("col\n")
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&sb, "label %02d\n", i)
	}
	tbl := tableFromCSV(t, sb.String())

	c, _ := tbl.Column("col")
	if c.Kind != KindText {
		t.Errorf("25 distinct labels over 25 rows should classify as text, got %q", c.Kind)
	}
}

func TestTable_Times(t *testing.T) {
	csv := "date\n2023-01-15\nnot-a-date\n2023-02-01\n"
	tbl := tableFromCSV(t, csv)

	ts, valid, ok := tbl.Times("date")
	if !ok {
		t.Fatal("Times() should find the column")
	}
	if !valid[0] || valid[1] || !valid[2] {
		t.Errorf("valid flags = %v, want [true false true]", valid)
	}
	if ts[0].Year() != 2023 || ts[0].Month() != 1 || ts[0].Day() != 15 {
		t.Errorf("ts[0] = %v, want 2023-01-15", ts[0])
	}

	if _, _, ok := tbl.Times("missing"); ok {
		t.Error("Times() on a missing column should report false")
	}
}

func TestTable_DuplicateHeaderFirstWins(t *testing.T) {
	csv := "a,a\n1,2\n"
	tbl := tableFromCSV(t, csv)

	nums, _ := tbl.Numeric("a")
	if nums[0] != 1 {
		t.Errorf("duplicate header should resolve to the first column, got %v", nums[0])
	}
}

func TestNew_ColumnMajor(t *testing.T) {
	tbl := New(
		[]string{"k", "v"},
		[][]string{{"x", "y"}, {"1", "2"}},
	)

	if tbl.Rows() != 2 {
		t.Errorf("Rows() = %d, want 2", tbl.Rows())
	}
	cells, _ := tbl.Strings("k")
	if diff := cmp.Diff([]string{"x", "y"}, cells); diff != "" {
		t.Errorf("Strings(k) mismatch (-want +got):\n%s", diff)
	}
	nums, _ := tbl.Numeric("v")
	if nums[1] != 2 {
		t.Errorf("Numeric(v)[1] = %v, want 2", nums[1])
	}
}

func BenchmarkReadFrom(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("Item_Type,Item_MRP,Item_Outlet_Sales\n")
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(&sb, "Type%d,%d.50,%d.25\n", i%16, i%250, i*3)
	}
	content := sb.String()

	b.ResetTimer()
	for b.Loop() {
		if _, err := ReadFrom(context.Background(), strings.NewReader(content)); err != nil {
			b.Fatal(err)
		}
	}
}
