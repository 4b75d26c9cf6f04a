// Package di wires the application graph with samber/do.
package di

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/spektr-org/marquee/config"
	"github.com/spektr-org/marquee/dashboard"
	"github.com/spektr-org/marquee/dataset"
	"github.com/spektr-org/marquee/server"
)

// NewContainer creates the injector for cfg. Services are built lazily on
// first invocation.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.Provide(injector, ProvideStore)
	do.Provide(injector, ProvideDashboard)
	do.Provide(injector, ProvideHandler)
	do.Provide(injector, ProvideHTTPService)

	return injector
}

// ProvideStore provides the dataset store backed by the configured file.
func ProvideStore(i do.Injector) (*dataset.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	store := dataset.NewStore(dataset.FileSource{Path: cfg.Data.Path}, cfg.Data.RequiredColumns...).
		RequireNumeric(cfg.Plot.NumericColumns()...)
	return store, nil
}

// ProvideDashboard provides the dashboard event handler.
func ProvideDashboard(i do.Injector) (*dashboard.Service, error) {
	cfg := do.MustInvoke[*config.Config](i)
	store := do.MustInvoke[*dataset.Store](i)
	return dashboard.NewServiceFromConfig(store, cfg), nil
}

// ProvideHandler provides the HTTP route tree.
func ProvideHandler(i do.Injector) (http.Handler, error) {
	cfg := do.MustInvoke[*config.Config](i)
	svc := do.MustInvoke[*dashboard.Service](i)
	return server.NewHandler(svc, cfg).Router(), nil
}

// ProvideHTTPService provides the supervised HTTP server.
func ProvideHTTPService(i do.Injector) (*server.Service, error) {
	cfg := do.MustInvoke[*config.Config](i)
	handler := do.MustInvoke[http.Handler](i)
	return server.NewService(handler, cfg.Server), nil
}

// LoadDataset performs the startup load. The dashboard cannot serve without
// it, so callers treat an error as fatal.
func LoadDataset(ctx context.Context, injector do.Injector) (*dataset.Snapshot, error) {
	store, err := do.Invoke[*dataset.Store](injector)
	if err != nil {
		return nil, err
	}
	return store.Load(ctx)
}
