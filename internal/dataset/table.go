package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind classifies a column by the majority of its non-empty cells. The
// classification drives validation messages and the CLI report only;
// aggregation reads the NaN-coded numeric view regardless of kind.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindDatetime    Kind = "datetime"
	KindText        Kind = "text"
)

// Column holds one dataset column in two views: the trimmed raw cell text
// and a numeric view where every cell that does not parse as a float is
// coded as NaN. Both slices have exactly Table.Rows entries.
type Column struct {
	Name string
	Raw  []string
	Num  []float64
	Kind Kind

	numCount int
}

// NumericCount reports how many cells parsed as numbers.
func (c *Column) NumericCount() int { return c.numCount }

// Table is an immutable columnar view of one loaded CSV file. It is safe
// for concurrent readers; nothing mutates it after construction.
type Table struct {
	cols  []Column
	index map[string]int
	rows  int
}

// New builds a Table from a header row and column-major raw cells. Cells
// must already be trimmed and every column must have the same length.
func New(names []string, raw [][]string) *Table {
	t := &Table{
		cols:  make([]Column, len(names)),
		index: make(map[string]int, len(names)),
	}
	if len(raw) > 0 {
		t.rows = len(raw[0])
	}
	for i, name := range names {
		var cells []string
		if i < len(raw) {
			cells = raw[i]
		}
		t.cols[i] = buildColumn(name, cells, t.rows)
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
	return t
}

func buildColumn(name string, cells []string, rows int) Column {
	c := Column{
		Name: name,
		Raw:  cells,
		Num:  make([]float64, rows),
	}
	if c.Raw == nil {
		c.Raw = make([]string, rows)
	}
	dates := 0
	for i := 0; i < rows; i++ {
		cell := c.Raw[i]
		if cell == "" {
			c.Num[i] = math.NaN()
			continue
		}
		if v, err := strconv.ParseFloat(cell, 64); err == nil {
			c.Num[i] = v
			c.numCount++
			continue
		}
		c.Num[i] = math.NaN()
		if _, ok := parseTime(cell); ok {
			dates++
		}
	}
	c.Kind = classify(c, dates, rows)
	return c
}

func classify(c Column, dates, rows int) Kind {
	filled := 0
	for _, cell := range c.Raw {
		if cell != "" {
			filled++
		}
	}
	if filled == 0 {
		return KindText
	}
	if c.numCount*10 >= filled*6 {
		return KindNumeric
	}
	if dates*10 >= filled*6 {
		return KindDatetime
	}
	distinct := make(map[string]struct{}, 32)
	for _, cell := range c.Raw {
		if cell != "" {
			distinct[cell] = struct{}{}
		}
	}
	limit := 20
	if rows/10 > limit {
		limit = rows / 10
	}
	if len(distinct) <= limit {
		return KindCategorical
	}
	return KindText
}

// Rows returns the number of data rows (the header is not a row).
func (t *Table) Rows() int { return t.rows }

// ColumnNames returns the header names in file order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i := range t.cols {
		names[i] = t.cols[i].Name
	}
	return names
}

// HasColumn reports whether a column with the exact trimmed name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column, or false when absent.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return &t.cols[i], true
}

// Numeric returns the NaN-coded numeric view of a column.
func (t *Table) Numeric(name string) ([]float64, bool) {
	c, ok := t.Column(name)
	if !ok {
		return nil, false
	}
	return c.Num, true
}

// Strings returns the trimmed raw cells of a column.
func (t *Table) Strings(name string) ([]string, bool) {
	c, ok := t.Column(name)
	if !ok {
		return nil, false
	}
	return c.Raw, true
}

// Columns exposes the full column set for report generation.
func (t *Table) Columns() []Column { return t.cols }

var timeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Times parses a column's cells as timestamps. The bool slice marks which
// rows parsed; callers decide how to treat the rest.
func (t *Table) Times(name string) ([]time.Time, []bool, bool) {
	c, ok := t.Column(name)
	if !ok {
		return nil, nil, false
	}
	ts := make([]time.Time, len(c.Raw))
	valid := make([]bool, len(c.Raw))
	for i, cell := range c.Raw {
		ts[i], valid[i] = parseTime(cell)
	}
	return ts, valid, true
}
