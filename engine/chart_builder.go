package engine

import "math"

// ============================================================================
// CHART BUILDER — Series, Bins and Legends for chart panels
// ============================================================================
// Shared building blocks for the plot routines: every routine assembles its
// panels from these so colors, sampling and legends stay consistent.
// ============================================================================

// Categorical palette for hue series.
var palette = []string{
	"#4C72B0", "#DD8452", "#55A868", "#C44E52", "#8172B3",
	"#937860", "#DA8BC3", "#8C8C8C", "#CCB974", "#64B5CD",
}

// Accent color for single-series charts.
const accentColor = "#4C72B0"

// Color for fitted lines drawn over scattered points.
const fitColor = "#C44E52"

// Points per fitted line.
const linePoints = 100

// PaletteColor returns the i-th palette color, cycling.
func PaletteColor(i int) string {
	return palette[i%len(palette)]
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = PaletteColor(i)
	}
	return colors
}

// buildLegend lists hue groups; a single unnamed group has no legend.
func buildLegend(groups []Group) []LegendEntry {
	if len(groups) == 1 && groups[0].Key == "all" {
		return nil
	}
	legend := make([]LegendEntry, 0, len(groups))
	for _, g := range groups {
		legend = append(legend, LegendEntry{Label: g.Label, Color: g.Color})
	}
	return legend
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func scatterSeries(name, color string, xs, ys []float64) ChartSeries {
	points := make([]ChartPoint, len(xs))
	for i := range xs {
		points[i] = ChartPoint{X: xs[i], Y: ys[i]}
	}
	return ChartSeries{Name: name, Style: StyleScatter, Color: color, Points: points}
}

func curveSeries(name string, style SeriesStyle, color string, xs, ys []float64) ChartSeries {
	points := make([]ChartPoint, len(xs))
	for i := range xs {
		points[i] = ChartPoint{X: xs[i], Y: ys[i]}
	}
	return ChartSeries{Name: name, Style: style, Color: color, Points: points}
}

// fitSeries samples the fitted line, and its confidence band when defined,
// across [lo, hi].
func fitSeries(name, color string, fit linearFit, lo, hi float64) []ChartSeries {
	grid := make([]float64, linePoints)
	step := (hi - lo) / float64(linePoints-1)
	for i := range grid {
		grid[i] = lo + float64(i)*step
	}

	line := make([]ChartPoint, len(grid))
	for i, x := range grid {
		line[i] = ChartPoint{X: x, Y: fit.Predict(x)}
	}
	out := []ChartSeries{{Name: name, Style: StyleLine, Color: color, Points: line}}
	if !fit.HasBand() {
		return out
	}

	lower := make([]ChartPoint, len(grid))
	upper := make([]ChartPoint, len(grid))
	for i, x := range grid {
		l, u := fit.Band(x)
		lower[i] = ChartPoint{X: x, Y: l}
		upper[i] = ChartPoint{X: x, Y: u}
	}
	band := ChartSeries{Name: name + " 95% CI", Style: StyleBand, Color: color, Points: lower, Upper: upper}
	return append([]ChartSeries{band}, out...)
}

// densitySeries estimates a 1-D KDE of xs and returns it as a curve.
// scale multiplies the density (1 for a density, n*binWidth for counts).
// ok is false when the data has no spread.
func densitySeries(name string, style SeriesStyle, color string, xs []float64, cfg *config, scale float64) (ChartSeries, bool) {
	if !hasSpread(xs) {
		return ChartSeries{}, false
	}
	bw := scottBandwidth(xs, 1, cfg.Adjust)
	grid := supportGrid(xs, bw, kdeCurvePoints(cfg))
	density := kde1D(xs, grid, bw)
	for i := range density {
		density[i] *= scale
	}
	return curveSeries(name, style, color, grid, density), true
}

func kdeCurvePoints(cfg *config) int {
	return max(cfg.KDEGridSize*2, 50)
}

// swapAxes turns a vertical curve into a horizontal one for y marginals.
func swapAxes(s ChartSeries) ChartSeries {
	out := s
	out.Points = make([]ChartPoint, len(s.Points))
	for i, p := range s.Points {
		out.Points[i] = ChartPoint{X: p.Y, Y: p.X}
	}
	return out
}

// ============================================================================
// RANGES
// ============================================================================

// dataRange returns [min, max] of xs padded by 5% of the span, or nil.
func dataRange(xs []float64) *Range {
	if len(xs) == 0 {
		return nil
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 0.5
	}
	return &Range{Low: lo - pad, High: hi + pad}
}

// countRange spans zero to the tallest bin.
func countRange(bins []Bin) *Range {
	top := 0
	for _, b := range bins {
		top = max(top, b.Count)
	}
	return &Range{Low: 0, High: math.Max(1, float64(top)*1.05)}
}
