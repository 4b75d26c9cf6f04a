package engine

import "strings"

// ============================================================================
// PAIRPLOT — pairwise relationships colored by hue
// ============================================================================
// n×n grid over the pair columns. Diagonal panels hold one density curve per
// hue level, scaled by the level's share of rows so the curves stack to the
// overall density. Off-diagonal panels scatter column j (x) against column i (y).
// ============================================================================

// BuildPairplot builds the pairwise grid over the configured pair columns.
// Columns the view does not have are skipped.
func BuildPairplot(view RecordView, opts ...Option) *Chart {
	cfg := applyOptions(opts)

	var cols []string
	for _, c := range cfg.PairColumns {
		if HasMeasure(view, c) {
			cols = append(cols, c)
		}
	}
	title := "Pairwise relationships of " + strings.Join(cols, ", ")
	if len(cols) == 0 || view.Len() == 0 {
		return emptyChart(ChartPairplot, title, "", "")
	}

	groups := GroupByHue(view, cfg.Hue)
	ranges := make(map[string]*Range, len(cols))
	for _, c := range cols {
		ranges[c] = dataRange(finiteColumn(view, c))
	}

	n := len(cols)
	chart := &Chart{Kind: ChartPairplot, Title: title, Rows: n, Cols: n, Legend: buildLegend(groups)}
	for i, yc := range cols {
		for j, xc := range cols {
			var p Panel
			if i == j {
				p = pairDiagonal(xc, groups, view.Len(), cfg)
			} else {
				p = pairScatter(xc, yc, groups)
				p.YRange = ranges[yc]
			}
			p.Row, p.Col = i, j
			p.XAxis, p.YAxis = xc, yc
			p.XRange = ranges[xc]
			chart.Panels = append(chart.Panels, p)
		}
	}
	return chart
}

func pairDiagonal(column string, groups []Group, total int, cfg *config) Panel {
	p := Panel{Role: RoleDiagonal}
	top := 0.0
	for _, g := range groups {
		xs := finiteColumn(g.View, column)
		share := float64(g.View.Len()) / float64(total)
		curve, ok := densitySeries(g.Label, StyleArea, g.Color, xs, cfg, share)
		if !ok {
			continue
		}
		for _, pt := range curve.Points {
			top = max(top, pt.Y)
		}
		p.Series = append(p.Series, curve)
	}
	if len(p.Series) == 0 {
		p.Notice = InsufficientData
		return p
	}
	p.YRange = &Range{Low: 0, High: top * 1.05}
	return p
}

func pairScatter(xc, yc string, groups []Group) Panel {
	p := Panel{Role: RoleOffDiag}
	for _, g := range groups {
		xs, ys := pairedColumns(g.View, xc, yc)
		if len(xs) == 0 {
			continue
		}
		p.Series = append(p.Series, scatterSeries(g.Label, g.Color, xs, ys))
	}
	return p
}
