package engine

import (
	"errors"
	"math"
)

// ============================================================================
// MARQUEE ENGINE TYPES
// ============================================================================
// Record      — one dataset row (string dimensions + numeric measures)
// FilterSpec  — categorical inclusion + closed numeric ranges
// Chart       — render-ready chart artifact (panels of series/bins/grids)
// Overview    — shape, head and describe statistics of a view
//
// The engine never performs I/O. Everything here is JSON-serializable so the
// presentation layer can ship it as-is or hand it to the render package.
// ============================================================================

// Sentinel errors.
var (
	// ErrUnknownPlotMode is returned when a plot mode does not name one of the
	// nine chart routines. It indicates a programming error in the caller.
	ErrUnknownPlotMode = errors.New("unknown plot mode")

	// ErrInsufficientData is returned by statistics that are undefined for
	// the given number of rows (correlation on fewer than two rows).
	ErrInsufficientData = errors.New("insufficient data")
)

// InsufficientData is the notice attached to charts and panels whose
// statistics cannot be computed for the current view.
const InsufficientData = "insufficient data"

// ============================================================================
// RECORD
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
//
//	Record{Dimensions: {"Genre": "Comedy"}, Measures: {"CriticRating": 87}}
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// FILTER SPEC
// ============================================================================

// Range is a closed interval [Low, High].
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether Low <= v <= High.
// NaN values and inverted ranges contain nothing.
func (r Range) Contains(v float64) bool {
	return r.Low <= v && v <= r.High
}

// Valid reports whether the range can contain any value.
func (r Range) Valid() bool {
	return r.Low <= r.High
}

// Span returns High-Low, or 0 for an invalid range.
func (r Range) Span() float64 {
	if !r.Valid() {
		return 0
	}
	return r.High - r.Low
}

// FilterSpec narrows a view to the rows a user selected.
//
// Categories: dimension → allowed values. OR within a dimension, AND across.
// A key present with an empty list matches nothing; an absent key is
// unconstrained.
//
// Ranges: measure → closed interval. AND across measures.
type FilterSpec struct {
	Categories map[string][]string `json:"categories"`
	Ranges     map[string]Range    `json:"ranges"`
}

// Clone returns a deep copy so callers can modify a default spec freely.
func (f FilterSpec) Clone() FilterSpec {
	out := FilterSpec{
		Categories: make(map[string][]string, len(f.Categories)),
		Ranges:     make(map[string]Range, len(f.Ranges)),
	}
	for k, v := range f.Categories {
		out.Categories[k] = append([]string{}, v...)
	}
	for k, v := range f.Ranges {
		out.Ranges[k] = v
	}
	return out
}

// Clamp intersects every range with the matching bound. Measures without a
// bound are left unchanged.
func (f FilterSpec) Clamp(bounds map[string]Range) FilterSpec {
	out := f.Clone()
	for key, r := range out.Ranges {
		b, ok := bounds[key]
		if !ok {
			continue
		}
		out.Ranges[key] = Range{Low: math.Max(r.Low, b.Low), High: math.Min(r.High, b.High)}
	}
	return out
}

// ============================================================================
// CHART ARTIFACT
// ============================================================================

// ChartKind identifies the routine that produced a chart.
type ChartKind string

const (
	ChartLM           ChartKind = "lm"
	ChartKDE          ChartKind = "kde"
	ChartHistogram    ChartKind = "histogram"
	ChartJoint        ChartKind = "joint"
	ChartDistribution ChartKind = "distribution"
	ChartHeatmap      ChartKind = "heatmap"
	ChartPairplot     ChartKind = "pairplot"
)

// Chart is a render-ready figure: a grid of panels sharing one title.
// Single-axes charts have exactly one panel.
type Chart struct {
	Kind   ChartKind     `json:"kind"`
	Mode   string        `json:"mode,omitempty"`
	Title  string        `json:"title"`
	Rows   int           `json:"rows"`
	Cols   int           `json:"cols"`
	Panels []Panel       `json:"panels"`
	Legend []LegendEntry `json:"legend,omitempty"`
	Notice string        `json:"notice,omitempty"`
}

// Panel returns the panel with the given role, or nil.
func (c *Chart) Panel(role PanelRole) *Panel {
	for i := range c.Panels {
		if c.Panels[i].Role == role {
			return &c.Panels[i]
		}
	}
	return nil
}

// PanelRole describes a panel's place in a multi-axes figure.
type PanelRole string

const (
	RoleMain      PanelRole = "main"
	RoleMarginalX PanelRole = "marginal_x"
	RoleMarginalY PanelRole = "marginal_y"
	RoleDiagonal  PanelRole = "diagonal"
	RoleOffDiag   PanelRole = "off_diagonal"
)

// Orientation of bins and curves in a panel.
type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

// Panel is one set of axes. Any combination of series, bins, density grid,
// hexagonal bins and matrix may be present.
type Panel struct {
	Role        PanelRole     `json:"role"`
	Row         int           `json:"row"`
	Col         int           `json:"col"`
	Title       string        `json:"title,omitempty"`
	XAxis       string        `json:"xAxis,omitempty"`
	YAxis       string        `json:"yAxis,omitempty"`
	XRange      *Range        `json:"xRange,omitempty"`
	YRange      *Range        `json:"yRange,omitempty"`
	Orientation Orientation   `json:"orientation,omitempty"`
	Series      []ChartSeries `json:"series,omitempty"`
	Bins        []Bin         `json:"bins,omitempty"`
	Grid        *DensityGrid  `json:"grid,omitempty"`
	Hex         *HexBins      `json:"hex,omitempty"`
	Matrix      *Matrix       `json:"matrix,omitempty"`
	Notice      string        `json:"notice,omitempty"`
}

// SeriesStyle says how a series is drawn.
type SeriesStyle string

const (
	StyleScatter SeriesStyle = "scatter"
	StyleLine    SeriesStyle = "line"
	StyleArea    SeriesStyle = "area"
	StyleBand    SeriesStyle = "band" // Points hold the lower edge, Upper the upper edge
)

// ChartSeries is a named set of points.
type ChartSeries struct {
	Name   string       `json:"name"`
	Style  SeriesStyle  `json:"style"`
	Color  string       `json:"color,omitempty"`
	Points []ChartPoint `json:"points"`
	Upper  []ChartPoint `json:"upper,omitempty"`
}

// ChartPoint is one (x, y) pair.
type ChartPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bin is one histogram bar covering [Low, High).
// The last bin of a histogram is closed on both ends.
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// DensityGrid holds a bivariate density evaluated on a regular grid.
// Z[j][i] is the density at (X[i], Y[j]). Levels are ascending iso-proportion
// contour levels; values below Levels[0] are not drawn.
type DensityGrid struct {
	X      []float64   `json:"x"`
	Y      []float64   `json:"y"`
	Z      [][]float64 `json:"z"`
	Max    float64     `json:"max"`
	Levels []float64   `json:"levels"`
	Filled bool        `json:"filled"`
}

// HexBins holds counts on a hexagonal lattice. Cells are pointy-top hexagons
// whose centers sit SX apart horizontally and SY apart vertically per lattice.
type HexBins struct {
	GridSize int       `json:"gridSize"`
	SX       float64   `json:"sx"`
	SY       float64   `json:"sy"`
	MaxCount int       `json:"maxCount"`
	Cells    []HexCell `json:"cells"`
}

// HexCell is one non-empty hexagon.
type HexCell struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Count int     `json:"count"`
}

// Matrix is an annotated square matrix (correlation heatmap).
// Undefined cells hold 0 in Values and false in Defined.
type Matrix struct {
	Labels      []string    `json:"labels"`
	Values      [][]float64 `json:"values"`
	Defined     [][]bool    `json:"defined"`
	Annotations [][]string  `json:"annotations"`
}

// LegendEntry maps a hue value to its color.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "index", "text", "number"
	Align string `json:"align"` // "left", "right"
}

// ============================================================================
// OVERVIEW
// ============================================================================

// Overview summarizes a view: shape, first rows and describe statistics.
type Overview struct {
	Rows       int           `json:"rows"`
	Columns    int           `json:"columns"`
	Head       *TableData    `json:"head"`
	Stats      []ColumnStats `json:"stats"`
	StatsTable *TableData    `json:"statsTable"`
	Notice     string        `json:"notice,omitempty"`
}

// ColumnStats are the describe statistics of one measure.
// Nil fields are undefined for the view (no rows, or one row for Std).
type ColumnStats struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Q25    *float64 `json:"q25"`
	Q50    *float64 `json:"q50"`
	Q75    *float64 `json:"q75"`
	Max    *float64 `json:"max"`
}
