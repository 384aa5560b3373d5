package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrNotLoaded is returned by Snapshot before the first successful Load.
var ErrNotLoaded = errors.New("dataset not loaded")

// Store owns the process-wide dataset state. The table is read from disk
// exactly when Load or Reload is called, never implicitly; readers always
// see a complete snapshot because the swap happens under the lock after
// parsing finishes.
type Store struct {
	mu       sync.RWMutex
	table    *Table
	loadedAt time.Time

	path   string
	schema Schema
	loads  atomic.Int64
	logger *slog.Logger
}

func NewStore(path string, schema Schema, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		schema: schema,
		logger: logger,
	}
}

// Load reads the CSV once and installs it as the current snapshot. The
// previous snapshot, if any, stays visible to readers until the new one
// is fully parsed.
func (s *Store) Load(ctx context.Context) error {
	start := time.Now()
	s.logger.Info("loading dataset", "path", s.path)

	t, err := Read(ctx, s.path)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	v := s.schema.Validate(t)
	if !v.OK() {
		return fmt.Errorf("load dataset: measure column missing: %v", v.MissingRequired)
	}
	if len(v.MissingOptional) > 0 {
		s.logger.Warn("schema columns absent, dependent charts degrade",
			"columns", v.MissingOptional)
	}

	s.mu.Lock()
	s.table = t
	s.loadedAt = time.Now()
	s.mu.Unlock()
	s.loads.Add(1)

	s.logger.Info("dataset loaded",
		"rows", t.Rows(),
		"columns", len(t.ColumnNames()),
		"duration", time.Since(start))
	return nil
}

// Reload re-reads the file on explicit request. There is no file watcher
// and no TTL; this is the only invalidation path.
func (s *Store) Reload(ctx context.Context) error {
	s.logger.Info("reload requested", "path", s.path)
	return s.Load(ctx)
}

// Snapshot returns the current immutable table.
func (s *Store) Snapshot() (*Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table == nil {
		return nil, ErrNotLoaded
	}
	return s.table, nil
}

// SetTable installs a table directly, bypassing the file read. Tests use
// it to run against in-memory fixtures.
func (s *Store) SetTable(t *Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = t
	s.loadedAt = time.Now()
	s.loads.Add(1)
}

// Schema returns the column bindings the store was built with.
func (s *Store) Schema() Schema { return s.schema }

// Path returns the configured CSV location.
func (s *Store) Path() string { return s.path }

// Stats reports store state for the admin endpoint.
func (s *Store) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"path":   s.path,
		"loads":  s.loads.Load(),
		"loaded": s.table != nil,
	}
	if s.table != nil {
		kinds := map[Kind]int{}
		for _, c := range s.table.Columns() {
			kinds[c.Kind]++
		}
		stats["rows"] = s.table.Rows()
		stats["columns"] = len(s.table.ColumnNames())
		stats["loaded_at"] = s.loadedAt
		stats["numeric_columns"] = kinds[KindNumeric]
		stats["categorical_columns"] = kinds[KindCategorical]
	}
	return stats
}
