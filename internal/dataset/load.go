package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	batchSize  = 10000
	maxWorkers = 10
)

// Read loads a CSV file into an immutable Table. The file is consumed in
// one pass; cell-to-number conversion fans out over a bounded worker pool
// once the rows are in memory.
func Read(ctx context.Context, path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	t, err := ReadFrom(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// ReadFrom parses CSV from any reader. The header row is mandatory; a
// stream without one is an error, a stream with only a header yields an
// empty table.
func ReadFrom(ctx context.Context, r io.Reader) (*Table, error) {
	cr := csv.NewReader(bufio.NewReaderSize(r, 1<<20))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}

	// Column-major raw cells. Short records pad with empty cells, long
	// records drop the extras past the header width.
	raw := make([][]string, len(names))
	for i := range raw {
		raw[i] = make([]string, 0, batchSize)
	}

	rows := 0
	for {
		if rows%batchSize == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", rows+2, err)
		}
		for i := range names {
			cell := ""
			if i < len(rec) {
				cell = strings.TrimSpace(rec[i])
			}
			raw[i] = append(raw[i], cell)
		}
		rows++
	}

	return build(ctx, names, raw, rows)
}

// build converts raw cells into typed columns. Each column is independent
// work, so the conversion runs one goroutine per column under a shared
// limit, writing to disjoint slots.
func build(ctx context.Context, names []string, raw [][]string, rows int) (*Table, error) {
	t := &Table{
		cols:  make([]Column, len(names)),
		index: make(map[string]int, len(names)),
		rows:  rows,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)
	for i := range names {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			t.cols[i] = buildColumn(names[i], raw[i], rows)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, name := range names {
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
	return t, nil
}
