// Package dashboard turns one sidebar selection into everything the page
// shows: the selected chart, the correlation heatmap, the optional pairplot
// and the data overview.
//
// Every call recomputes from the current dataset snapshot. Nothing derived
// from a selection is cached between calls.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/spektr-org/marquee/config"
	"github.com/spektr-org/marquee/dataset"
	"github.com/spektr-org/marquee/engine"
	"github.com/spektr-org/marquee/logging"
	"github.com/spektr-org/marquee/metrics"
	"github.com/spektr-org/marquee/schema"
)

// ErrUnknownPanel is returned when a selection names a panel that does not exist.
var ErrUnknownPanel = errors.New("unknown panel")

// Panel names one section of the dashboard page.
type Panel string

const (
	PanelChart    Panel = "chart"
	PanelHeatmap  Panel = "heatmap"
	PanelPairplot Panel = "pairplot"
	PanelOverview Panel = "overview"
)

// Panels returns every panel in page order.
func Panels() []Panel {
	return []Panel{PanelChart, PanelHeatmap, PanelPairplot, PanelOverview}
}

// ParsePanel validates a panel name.
func ParsePanel(s string) (Panel, error) {
	for _, p := range Panels() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPanel, s)
}

// Selection is the state of the sidebar.
type Selection struct {
	// Genres lists the selected category values. Nil selects all of them;
	// an empty non-nil slice selects none.
	Genres []string `json:"genres"`

	// Ranges overrides the numeric bounds per column. Columns left out keep
	// their full observed range.
	Ranges map[string]engine.Range `json:"ranges,omitempty"`

	// Mode is the chart routine. The zero value means the default mode.
	Mode engine.PlotMode `json:"mode"`

	// Pairplot opts in to the pairplot. It is never built otherwise.
	Pairplot bool `json:"pairplot"`

	// Panels restricts the response. Empty means every panel.
	Panels []Panel `json:"panels,omitempty"`
}

// Response is the rendered dashboard for one selection. Panels that were not
// requested are nil.
type Response struct {
	Filters  engine.FilterSpec `json:"filters"`
	Mode     engine.PlotMode   `json:"mode"`
	Summary  *engine.TextData  `json:"summary"`
	Chart    *engine.Chart     `json:"chart,omitempty"`
	Heatmap  *engine.Chart     `json:"heatmap,omitempty"`
	Pairplot *engine.Chart     `json:"pairplot,omitempty"`
	Overview *engine.Overview  `json:"overview,omitempty"`
}

// ModeOption is one entry of the plot mode menu.
type ModeOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Slider is one numeric range widget.
type Slider struct {
	Column  string  `json:"column"`
	Label   string  `json:"label"`
	Type    string  `json:"type"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Missing int     `json:"missing"`
}

// Controls is what the sidebar needs to draw its widgets. It is read from the
// schema discovered when the dataset was loaded.
type Controls struct {
	Category      string                  `json:"category"`
	CategoryLabel string                  `json:"categoryLabel"`
	Values        []string                `json:"values"`
	Bounds        map[string]engine.Range `json:"bounds"`
	Sliders       []Slider                `json:"sliders"`
	Columns       []string                `json:"columns"`
	Modes         []ModeOption            `json:"modes"`
	DefaultMode   string                  `json:"defaultMode"`
	Rows          int                     `json:"rows"`
	LoadedAt      time.Time               `json:"loadedAt"`
	Schema        *schema.Config          `json:"schema"`
}

// Service handles dashboard events against a dataset store.
type Service struct {
	store    *dataset.Store
	category string
	mode     engine.PlotMode
	opts     []engine.Option
}

// NewService creates a service whose category filter runs over category.
// opts are passed to every chart routine.
func NewService(store *dataset.Store, category string, opts ...engine.Option) *Service {
	return &Service{
		store:    store,
		category: category,
		mode:     engine.ModeLM,
		opts:     append([]engine.Option{engine.WithHue(category)}, opts...),
	}
}

// NewServiceFromConfig creates a service with the chart columns and tuning
// from cfg.
func NewServiceFromConfig(store *dataset.Store, cfg *config.Config) *Service {
	return NewService(store, cfg.Data.CategoryColumn, EngineOptions(cfg.Plot)...)
}

// EngineOptions maps plot configuration onto chart routine options.
func EngineOptions(p config.PlotConfig) []engine.Option {
	return []engine.Option{
		engine.WithAxes(p.XColumn, p.YColumn),
		engine.WithHistColumn(p.HistColumn),
		engine.WithDistColumn(p.DistColumn),
		engine.WithPairColumns(p.PairColumns...),
		engine.WithBins(p.Bins),
		engine.WithHexGridSize(p.HexGridSize),
		engine.WithKDEGridSize(p.KDEGridSize),
		engine.WithBandwidthAdjust(p.BandwidthAdjust),
		engine.WithHeadRows(p.HeadRows),
	}
}

// Handle renders the dashboard for sel.
func (s *Service) Handle(ctx context.Context, sel Selection) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := s.store.Get()
	if err != nil {
		return nil, err
	}
	panels, err := s.panelSet(sel)
	if err != nil {
		return nil, err
	}
	mode := sel.Mode
	if mode == (engine.PlotMode{}) {
		mode = s.mode
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("dashboard: %w: %q", engine.ErrUnknownPlotMode, mode.Key())
	}

	spec := s.FilterSpec(snap.View, sel)
	filtered := engine.ApplyFilters(snap.View, spec)
	metrics.FilteredRows.Observe(float64(filtered.Len()))

	resp := &Response{
		Filters: spec,
		Mode:    mode,
		Summary: engine.BuildText(filtered, snap.View, s.category),
	}

	if panels[PanelChart] {
		start := time.Now()
		resp.Chart, err = engine.Render(mode, filtered, s.opts...)
		metrics.ObserveRender(string(PanelChart), mode.Key(), start, err)
		if err != nil {
			return nil, err
		}
	}
	if panels[PanelHeatmap] {
		start := time.Now()
		resp.Heatmap = engine.BuildHeatmap(filtered, snap.Schema.MeasureKeys()...)
		metrics.ObserveRender(string(PanelHeatmap), "", start, nil)
	}
	if panels[PanelPairplot] {
		start := time.Now()
		resp.Pairplot = engine.BuildPairplot(filtered, s.opts...)
		metrics.ObserveRender(string(PanelPairplot), "", start, nil)
	}
	if panels[PanelOverview] {
		start := time.Now()
		resp.Overview = engine.Describe(filtered, s.opts...)
		metrics.ObserveRender(string(PanelOverview), "", start, nil)
	}

	logging.Debug().
		Str("mode", mode.Key()).
		Int("rows", filtered.Len()).
		Int("total", snap.View.Len()).
		Bool("pairplot", resp.Pairplot != nil).
		Msg("dashboard rendered")
	return resp, nil
}

// FilterSpec builds the filter for sel over view: the full default selection,
// overridden by sel and clamped to the observed bounds.
func (s *Service) FilterSpec(view engine.RecordView, sel Selection) engine.FilterSpec {
	spec := engine.DefaultFilterSpec(view, s.category)
	if sel.Genres != nil {
		spec.Categories[s.category] = append([]string{}, sel.Genres...)
	}
	for col, r := range sel.Ranges {
		spec.Ranges[col] = r
	}
	return spec.Clamp(engine.Bounds(view))
}

func (s *Service) panelSet(sel Selection) (map[Panel]bool, error) {
	set := make(map[Panel]bool, len(Panels()))
	if len(sel.Panels) == 0 {
		for _, p := range Panels() {
			set[p] = true
		}
	}
	for _, p := range sel.Panels {
		if _, err := ParsePanel(string(p)); err != nil {
			return nil, err
		}
		set[p] = true
	}
	if !sel.Pairplot {
		delete(set, PanelPairplot)
	}
	return set, nil
}

// Controls describes the current dataset for the sidebar.
func (s *Service) Controls() (*Controls, error) {
	snap, err := s.store.Get()
	if err != nil {
		return nil, err
	}
	return s.controls(snap), nil
}

// Reload re-reads the dataset and returns the new controls.
func (s *Service) Reload(ctx context.Context) (*Controls, error) {
	snap, err := s.store.Reload(ctx)
	if err != nil {
		return nil, err
	}
	return s.controls(snap), nil
}

func (s *Service) controls(snap *dataset.Snapshot) *Controls {
	sch := snap.Schema
	c := &Controls{
		Category:      s.category,
		CategoryLabel: fmt.Sprintf("Filter by %s:", s.category),
		Bounds:        make(map[string]engine.Range, len(sch.Measures)),
		Columns:       sch.MeasureKeys(),
		DefaultMode:   s.mode.Key(),
		Rows:          snap.View.Len(),
		LoadedAt:      snap.LoadedAt,
		Schema:        sch,
	}
	if dim := sch.Dimension(s.category); dim != nil {
		c.CategoryLabel = fmt.Sprintf("Filter by %s:", dim.DisplayName)
		c.Values = dim.Values
	}
	for _, m := range sch.Measures {
		// A column with no finite value has no range to offer.
		if math.IsNaN(m.Min) || math.IsNaN(m.Max) {
			continue
		}
		c.Bounds[m.Key] = engine.Range{Low: m.Min, High: m.Max}
		c.Sliders = append(c.Sliders, Slider{
			Column:  m.Key,
			Label:   m.DisplayName + " Range:",
			Type:    m.Type,
			Min:     m.Min,
			Max:     m.Max,
			Missing: m.Missing,
		})
	}
	for _, m := range engine.PlotModes() {
		c.Modes = append(c.Modes, ModeOption{Key: m.Key(), Label: m.Label()})
	}
	return c
}
