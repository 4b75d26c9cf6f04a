package engine

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ============================================================================
// PLOT ROUTINES — one builder per chart kind
// ============================================================================
// Every builder reads the view through RecordView and returns a Chart. None
// fails: a view too small for an estimator yields a panel Notice instead.
// ============================================================================

// emptyChart is returned when a chart has no plottable rows at all.
func emptyChart(kind ChartKind, title, xAxis, yAxis string) *Chart {
	return &Chart{
		Kind:   kind,
		Title:  title,
		Rows:   1,
		Cols:   1,
		Panels: []Panel{{Role: RoleMain, XAxis: xAxis, YAxis: yAxis, Notice: InsufficientData}},
		Notice: InsufficientData,
	}
}

func singlePanel(kind ChartKind, title string, p Panel) *Chart {
	p.Role = RoleMain
	return &Chart{Kind: kind, Title: title, Rows: 1, Cols: 1, Panels: []Panel{p}}
}

// ============================================================================
// LM — scatter + regression per hue
// ============================================================================

func buildLM(view RecordView, cfg *config) *Chart {
	title := fmt.Sprintf("%s vs %s", cfg.YColumn, cfg.XColumn)
	xsAll, ysAll := pairedColumns(view, cfg.XColumn, cfg.YColumn)
	if len(xsAll) == 0 {
		return emptyChart(ChartLM, title, cfg.XColumn, cfg.YColumn)
	}

	groups := GroupByHue(view, cfg.Hue)
	panel := Panel{
		XAxis:  cfg.XColumn,
		YAxis:  cfg.YColumn,
		XRange: dataRange(xsAll),
		YRange: dataRange(ysAll),
	}
	fitted := 0
	for _, g := range groups {
		xs, ys := pairedColumns(g.View, cfg.XColumn, cfg.YColumn)
		if len(xs) == 0 {
			continue
		}
		panel.Series = append(panel.Series, scatterSeries(g.Label, g.Color, xs, ys))
		fit, ok := fitLinear(xs, ys)
		if !ok {
			continue
		}
		fitted++
		panel.Series = append(panel.Series, fitSeries(g.Label+" fit", g.Color, fit, floats.Min(xs), floats.Max(xs))...)
	}
	// A hue too small to fit keeps its points; the panel only says so when
	// no hue could be fitted.
	if fitted == 0 {
		panel.Notice = InsufficientData
	}

	chart := singlePanel(ChartLM, title, panel)
	chart.Legend = buildLegend(groups)
	return chart
}

// ============================================================================
// KDE — filled bivariate density
// ============================================================================

func buildKDE2D(view RecordView, cfg *config) *Chart {
	title := fmt.Sprintf("Density of %s and %s", cfg.XColumn, cfg.YColumn)
	xs, ys := pairedColumns(view, cfg.XColumn, cfg.YColumn)
	if len(xs) == 0 {
		return emptyChart(ChartKDE, title, cfg.XColumn, cfg.YColumn)
	}
	panel := Panel{XAxis: cfg.XColumn, YAxis: cfg.YColumn}
	grid, ok := densityGrid(xs, ys, cfg, true)
	if !ok {
		panel.XRange, panel.YRange = dataRange(xs), dataRange(ys)
		panel.Notice = InsufficientData
	} else {
		panel.Grid = grid
		panel.XRange = &Range{Low: grid.X[0], High: grid.X[len(grid.X)-1]}
		panel.YRange = &Range{Low: grid.Y[0], High: grid.Y[len(grid.Y)-1]}
	}
	return singlePanel(ChartKDE, title, panel)
}

// densityGrid estimates the bivariate KDE of (xs, ys) on a square grid.
func densityGrid(xs, ys []float64, cfg *config, filled bool) (*DensityGrid, bool) {
	if !hasSpread(xs) || !hasSpread(ys) {
		return nil, false
	}
	bwx := scottBandwidth(xs, 2, cfg.Adjust)
	bwy := scottBandwidth(ys, 2, cfg.Adjust)
	gx := supportGrid(xs, bwx, cfg.KDEGridSize)
	gy := supportGrid(ys, bwy, cfg.KDEGridSize)
	z := kde2D(xs, ys, gx, gy, bwx, bwy)

	var top float64
	for _, row := range z {
		top = max(top, floats.Max(row))
	}
	return &DensityGrid{
		X:      gx,
		Y:      gy,
		Z:      z,
		Max:    top,
		Levels: isoLevels(z, contourLevels, contourThresh),
		Filled: filled,
	}, true
}

// ============================================================================
// HISTOGRAM — bins + count-scaled KDE
// ============================================================================

func buildHistogram(view RecordView, cfg *config) *Chart {
	title := fmt.Sprintf("Distribution of %s", cfg.HistColumn)
	xs := finiteColumn(view, cfg.HistColumn)
	if len(xs) == 0 {
		return emptyChart(ChartHistogram, title, cfg.HistColumn, "Count")
	}
	panel := histogramPanel(xs, cfg, true, Vertical)
	panel.XAxis, panel.YAxis = cfg.HistColumn, "Count"
	return singlePanel(ChartHistogram, title, panel)
}

// histogramPanel bins xs and optionally overlays a KDE scaled to counts.
// Horizontal panels swap the value and count axes.
func histogramPanel(xs []float64, cfg *config, withKDE bool, orient Orientation) Panel {
	edges := autoBinEdges(xs)
	if cfg.Bins > 0 {
		edges = fixedBinEdges(xs, cfg.Bins)
	}
	bins := histogram(xs, edges)
	panel := Panel{Orientation: orient, Bins: bins}

	valueRange := &Range{Low: edges[0], High: edges[len(edges)-1]}
	counts := countRange(bins)

	if withKDE {
		scale := float64(len(xs)) * (edges[1] - edges[0])
		if curve, ok := densitySeries("kde", StyleLine, accentColor, xs, cfg, scale); ok {
			if orient == Horizontal {
				curve = swapAxes(curve)
			}
			panel.Series = append(panel.Series, curve)
		} else {
			panel.Notice = InsufficientData
		}
	}

	if orient == Horizontal {
		panel.XRange, panel.YRange = counts, valueRange
	} else {
		panel.XRange, panel.YRange = valueRange, counts
	}
	return panel
}

// ============================================================================
// JOINT — bivariate main panel + two marginals
// ============================================================================
// Layout (2×2 grid, top-right cell unused):
//
//	[marginal_x]
//	[main      ][marginal_y]
// ============================================================================

func buildJoint(kind JointKind, view RecordView, cfg *config) *Chart {
	title := fmt.Sprintf("%s vs %s (%s)", cfg.YColumn, cfg.XColumn, kind)
	xs, ys := pairedColumns(view, cfg.XColumn, cfg.YColumn)
	if len(xs) == 0 {
		return emptyChart(ChartJoint, title, cfg.XColumn, cfg.YColumn)
	}

	var main, mx, my Panel
	switch kind {
	case JointHex:
		main = hexPanel(xs, ys, cfg)
		mx, my = histogramPanel(xs, cfg, false, Vertical), histogramPanel(ys, cfg, false, Horizontal)
	case JointReg:
		main = regPanel(xs, ys)
		mx, my = histogramPanel(xs, cfg, true, Vertical), histogramPanel(ys, cfg, true, Horizontal)
	case JointResid:
		main = residPanel(xs, ys)
		mx, my = histogramPanel(xs, cfg, false, Vertical), histogramPanel(ys, cfg, false, Horizontal)
	case JointKDE:
		main = kdeJointPanel(xs, ys, cfg)
		mx, my = densityMarginal(xs, cfg, Vertical), densityMarginal(ys, cfg, Horizontal)
	default: // JointScatter
		main = Panel{
			Series: []ChartSeries{scatterSeries(cfg.YColumn, accentColor, xs, ys)},
			XRange: dataRange(xs),
			YRange: dataRange(ys),
		}
		mx, my = histogramPanel(xs, cfg, false, Vertical), histogramPanel(ys, cfg, false, Horizontal)
	}

	main.Role, main.Row, main.Col = RoleMain, 1, 0
	main.XAxis, main.YAxis = cfg.XColumn, cfg.YColumn
	mx.Role, mx.Row, mx.Col = RoleMarginalX, 0, 0
	my.Role, my.Row, my.Col = RoleMarginalY, 1, 1

	// Marginals share the main panel's data axes.
	mx.XRange = main.XRange
	my.YRange = main.YRange

	return &Chart{Kind: ChartJoint, Title: title, Rows: 2, Cols: 2, Panels: []Panel{mx, main, my}}
}

func hexPanel(xs, ys []float64, cfg *config) Panel {
	gridSize := cfg.HexGridSize
	if gridSize == 0 {
		gridSize = max(1, (min(freedmanDiaconisBins(xs), 50)+min(freedmanDiaconisBins(ys), 50))/2)
	}
	hb := hexbin(xs, ys, gridSize)
	lo, hi := expandSingular(xs)
	ylo, yhi := expandSingular(ys)
	return Panel{
		Hex:    hb,
		XRange: &Range{Low: lo - hb.SX/2, High: hi + hb.SX/2},
		YRange: &Range{Low: ylo - hb.SY, High: yhi + hb.SY},
	}
}

func regPanel(xs, ys []float64) Panel {
	p := Panel{
		Series: []ChartSeries{scatterSeries("observed", accentColor, xs, ys)},
		XRange: dataRange(xs),
		YRange: dataRange(ys),
	}
	fit, ok := fitLinear(xs, ys)
	if !ok {
		p.Notice = InsufficientData
		return p
	}
	p.Series = append(p.Series, fitSeries("fit", fitColor, fit, floats.Min(xs), floats.Max(xs))...)
	return p
}

func residPanel(xs, ys []float64) Panel {
	fit, ok := fitLinear(xs, ys)
	if !ok {
		return Panel{XRange: dataRange(xs), YRange: dataRange(ys), Notice: InsufficientData}
	}
	resid := make([]float64, len(xs))
	for i, x := range xs {
		resid[i] = ys[i] - fit.Predict(x)
	}
	xr := dataRange(xs)
	zero := curveSeries("zero", StyleLine, "#8C8C8C", []float64{xr.Low, xr.High}, []float64{0, 0})
	return Panel{
		Series: []ChartSeries{zero, scatterSeries("residual", accentColor, xs, resid)},
		XRange: xr,
		YRange: dataRange(append(resid, 0)),
	}
}

func kdeJointPanel(xs, ys []float64, cfg *config) Panel {
	grid, ok := densityGrid(xs, ys, cfg, false)
	if !ok {
		return Panel{XRange: dataRange(xs), YRange: dataRange(ys), Notice: InsufficientData}
	}
	return Panel{
		Grid:   grid,
		XRange: &Range{Low: grid.X[0], High: grid.X[len(grid.X)-1]},
		YRange: &Range{Low: grid.Y[0], High: grid.Y[len(grid.Y)-1]},
	}
}

func densityMarginal(xs []float64, cfg *config, orient Orientation) Panel {
	p := Panel{Orientation: orient}
	curve, ok := densitySeries("density", StyleArea, accentColor, xs, cfg, 1)
	if !ok {
		p.Notice = InsufficientData
		return p
	}
	top := 0.0
	for _, pt := range curve.Points {
		top = max(top, pt.Y)
	}
	densityRange := &Range{Low: 0, High: top * 1.05}
	if orient == Horizontal {
		p.Series = []ChartSeries{swapAxes(curve)}
		p.XRange = densityRange
	} else {
		p.Series = []ChartSeries{curve}
		p.YRange = densityRange
	}
	return p
}

// ============================================================================
// DISTRIBUTION — filled 1-D KDE
// ============================================================================

func buildDistribution(view RecordView, cfg *config) *Chart {
	title := fmt.Sprintf("Distribution of %s", cfg.DistColumn)
	xs := finiteColumn(view, cfg.DistColumn)
	if len(xs) == 0 {
		return emptyChart(ChartDistribution, title, cfg.DistColumn, "Density")
	}
	panel := densityMarginal(xs, cfg, Vertical)
	panel.XAxis, panel.YAxis = cfg.DistColumn, "Density"
	if panel.Notice != "" {
		panel.XRange = dataRange(xs)
	} else {
		pts := panel.Series[0].Points
		panel.XRange = &Range{Low: pts[0].X, High: pts[len(pts)-1].X}
	}
	return singlePanel(ChartDistribution, title, panel)
}
