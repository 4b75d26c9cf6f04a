package dataset

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/marquee/schema"
)

// stringSource serves CSV text that tests can swap between loads.
type stringSource struct {
	mu   sync.Mutex
	data string
}

func (s *stringSource) Open(context.Context) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return io.NopCloser(strings.NewReader(s.data)), nil
}

func (s *stringSource) Name() string { return "memory" }

func (s *stringSource) set(data string) {
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

const header = "Film,Genre,CriticRating,AudienceRating,BudgetMillion,Year\n"

var required = []string{"Genre", "CriticRating", "AudienceRating", "BudgetMillion"}

func TestGetBeforeLoad(t *testing.T) {
	store := NewStore(&stringSource{data: header})
	_, err := store.Get()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestLoadAndGet(t *testing.T) {
	src := &stringSource{data: header + "Alpha,Comedy,87,81,8,2009\nBravo,Drama,45,60,105,2010\n"}
	store := NewStore(src, required...)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.View.Len())
	assert.Equal(t, "memory", snap.Source)
	assert.False(t, snap.LoadedAt.IsZero())

	got, err := store.Get()
	require.NoError(t, err)
	assert.Same(t, snap, got)
}

func TestLoadMissingColumnFails(t *testing.T) {
	store := NewStore(&stringSource{data: "Film,Genre\nAlpha,Comedy\n"}, required...)
	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, schema.ErrMissingColumns)

	_, err = store.Get()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestLoadTextRatingFails(t *testing.T) {
	src := &stringSource{data: header + "Alpha,Comedy,87,81,8,2009\nBravo,Drama,tbd,60,105,2010\n"}
	store := NewStore(src, required...).RequireNumeric("CriticRating", "AudienceRating")

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, schema.ErrNotNumeric)
	assert.Contains(t, err.Error(), "CriticRating")

	_, err = store.Get()
	assert.ErrorIs(t, err, ErrNotLoaded)

	src.set(header + "Alpha,Comedy,87,81,8,2009\n")
	_, err = store.Load(context.Background())
	assert.NoError(t, err)
}

func TestLoadAgainChecksShape(t *testing.T) {
	src := &stringSource{data: header + "Alpha,Comedy,87,81,8,2009\n"}
	store := NewStore(src, required...)
	first, err := store.Load(context.Background())
	require.NoError(t, err)

	src.set("Film,Genre,CriticRating,AudienceRating,BudgetMillion\nAlpha,Comedy,87,81,8\n")
	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	got, err := store.Get()
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestReloadSwapsSnapshot(t *testing.T) {
	src := &stringSource{data: header + "Alpha,Comedy,87,81,8,2009\n"}
	store := NewStore(src, required...)
	first, err := store.Load(context.Background())
	require.NoError(t, err)

	src.set(header + "Alpha,Comedy,87,81,8,2009\nBravo,Drama,45,60,105,2010\n")
	second, err := store.Reload(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, first.View.Len(), "old snapshot is never mutated")
	assert.Equal(t, 2, second.View.Len())

	got, _ := store.Get()
	assert.Same(t, second, got)
}

func TestReloadFailureKeepsSnapshot(t *testing.T) {
	src := &stringSource{data: header + "Alpha,Comedy,87,81,8,2009\n"}
	store := NewStore(src, required...)
	first, err := store.Load(context.Background())
	require.NoError(t, err)

	src.set("Film,Genre,CriticRating,AudienceRating,BudgetMillion\nAlpha,Comedy,87,81,8\n")
	_, err = store.Reload(context.Background())
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	src.set("")
	_, err = store.Reload(context.Background())
	assert.Error(t, err)

	got, err := store.Get()
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+"Alpha,Comedy,87,81,8,2009\n"), 0o644))

	store := NewStore(FileSource{Path: path}, required...)
	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, snap.Source)

	missing := NewStore(FileSource{Path: filepath.Join(t.TempDir(), "nope.csv")})
	_, err = missing.Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSourceHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FileSource{Path: "../data/movies.csv"}.Open(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
