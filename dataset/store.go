// Package dataset holds the application-scoped movie table.
//
// The table is loaded once at startup and read by every request. Only an
// explicit Reload replaces it; a failed reload keeps the previous snapshot.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spektr-org/marquee/engine"
	"github.com/spektr-org/marquee/helpers"
	"github.com/spektr-org/marquee/logging"
	"github.com/spektr-org/marquee/metrics"
	"github.com/spektr-org/marquee/schema"
)

var (
	// ErrNotLoaded is returned by Get before the first successful Load.
	ErrNotLoaded = errors.New("dataset not loaded")

	// ErrSchemaMismatch is returned when a reload changes the table's columns.
	ErrSchemaMismatch = errors.New("dataset schema changed")
)

// Source opens the delimited text backing the dataset.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}

// FileSource reads the dataset from a local file.
type FileSource struct {
	Path string
}

// Open opens the file.
func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	return f, nil
}

// Name returns the file path.
func (s FileSource) Name() string { return s.Path }

// Snapshot is one immutable load of the dataset.
type Snapshot struct {
	View     engine.RecordView
	Schema   *schema.Config
	LoadedAt time.Time
	Source   string
}

// Store holds the current snapshot.
type Store struct {
	source   Source
	required []string
	numeric  []string

	mu   sync.RWMutex
	snap *Snapshot
}

// NewStore creates a store that reads from source. Every column in required
// must be present for a load to succeed.
func NewStore(source Source, required ...string) *Store {
	return &Store{source: source, required: required}
}

// RequireNumeric makes a load fail unless every named column is read as
// numeric. A stray text cell in a rating column would otherwise turn the
// column into a dimension and leave every chart empty.
func (s *Store) RequireNumeric(columns ...string) *Store {
	s.numeric = append(s.numeric, columns...)
	return s
}

// Load reads the dataset. It is meant to be called once at startup; calling
// it again behaves like Reload.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	return s.replace(ctx)
}

// Reload re-reads the dataset and swaps it in. The new table must have the
// same columns as the current one; on any failure the current snapshot stays.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	return s.replace(ctx)
}

// Get returns the current snapshot.
func (s *Store) Get() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNotLoaded
	}
	return s.snap, nil
}

func (s *Store) replace(ctx context.Context) (*Snapshot, error) {
	snap, err := s.read(ctx)
	if err != nil {
		metrics.ObserveLoad(0, err)
		logging.Error().Err(err).Str("source", s.source.Name()).Msg("dataset load failed")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap != nil && !s.snap.Schema.SameShape(*snap.Schema) {
		err := fmt.Errorf("%w: %v → %v", ErrSchemaMismatch, s.snap.Schema.Columns, snap.Schema.Columns)
		metrics.ObserveLoad(0, err)
		logging.Error().Err(err).Str("source", s.source.Name()).Msg("dataset reload rejected")
		return nil, err
	}
	s.snap = snap

	metrics.ObserveLoad(snap.View.Len(), nil)
	logging.Info().
		Str("source", snap.Source).
		Int("rows", snap.View.Len()).
		Int("columns", len(snap.Schema.Columns)).
		Msg("dataset loaded")
	return snap, nil
}

func (s *Store) read(ctx context.Context) (*Snapshot, error) {
	rc, err := s.source.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	opts := schema.DiscoverOptions{Name: "movies", Source: s.source.Name()}
	view, sch, err := helpers.ParseCSVView(rc, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.source.Name(), err)
	}
	if err := sch.Require(s.required...); err != nil {
		return nil, fmt.Errorf("%s: %w", s.source.Name(), err)
	}
	if err := sch.RequireMeasures(s.numeric...); err != nil {
		return nil, fmt.Errorf("%s: %w", s.source.Name(), err)
	}
	return &Snapshot{
		View:     view,
		Schema:   sch,
		LoadedAt: time.Now(),
		Source:   s.source.Name(),
	}, nil
}
