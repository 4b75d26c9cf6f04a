package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/marquee/config"
	"github.com/spektr-org/marquee/dashboard"
	"github.com/spektr-org/marquee/server"
)

func TestContainerWiring(t *testing.T) {
	cfg := config.Default()
	cfg.Data.Path = "../data/movies.csv"
	injector := NewContainer(cfg)

	snap, err := LoadDataset(context.Background(), injector)
	require.NoError(t, err)
	assert.Equal(t, 559, snap.View.Len())

	svc := do.MustInvoke[*dashboard.Service](injector)
	c, err := svc.Controls()
	require.NoError(t, err)
	assert.Equal(t, 559, c.Rows, "dashboard shares the loaded store")

	h := do.MustInvoke[http.Handler](injector)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.NotNil(t, do.MustInvoke[*server.Service](injector))
}

func TestLoadDatasetMissingFile(t *testing.T) {
	cfg := config.Default()
	cfg.Data.Path = "../data/does-not-exist.csv"
	_, err := LoadDataset(context.Background(), NewContainer(cfg))
	assert.Error(t, err)
}
