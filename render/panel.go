package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/marquee/engine"
)

// ============================================================================
// PANEL — one set of axes rasterized through go-chart
// ============================================================================
// go-chart owns the canvas, axes and ticks. A single hidden series pins the
// data ranges; everything visible is drawn by one Renderable element in the
// artifact's own order (grid, hexagons, bins, then series).
// ============================================================================

// renderPanel rasterizes p into a w×h image.
func renderPanel(p *engine.Panel, w, h int) (image.Image, error) {
	if !hasContent(p) {
		msg := p.Notice
		if msg == "" {
			msg = engine.InsufficientData
		}
		return noticeImage(w, h, msg), nil
	}

	xr, yr := panelRanges(p)
	ch := chart.Chart{
		Width:      w,
		Height:     h,
		Title:      p.Title,
		Background: chart.Style{Padding: chart.Box{Top: 12, Left: 12, Right: 12, Bottom: 12}},
		XAxis:      chart.XAxis{Name: engine.LabelForColumn(p.XAxis), Range: &xr},
		YAxis:      chart.YAxis{Name: engine.LabelForColumn(p.YAxis), Range: &yr},
		Series: []chart.Series{chart.ContinuousSeries{
			Style:   chart.Style{Hidden: true, StrokeColor: drawing.ColorTransparent},
			XValues: []float64{xr.Min, xr.Max},
			YValues: []float64{yr.Min, yr.Max},
		}},
		Elements: []chart.Renderable{panelContent(p, xr, yr)},
	}

	if p.Role == engine.RoleMarginalX || p.Role == engine.RoleMarginalY {
		ch.XAxis.Style = chart.Style{Hidden: true}
		ch.YAxis.Style = chart.Style{Hidden: true}
	}
	if p.Matrix != nil {
		ch.XAxis.Ticks, ch.YAxis.Ticks = matrixTicks(p.Matrix.Labels)
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render panel %s(%d,%d): %w", p.Role, p.Row, p.Col, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode panel: %w", err)
	}
	return img, nil
}

func hasContent(p *engine.Panel) bool {
	return len(p.Series) > 0 || len(p.Bins) > 0 || p.Grid != nil || (p.Hex != nil && len(p.Hex.Cells) > 0) || p.Matrix != nil
}

// panelRanges returns the panel's axis ranges, derived from its content when
// the artifact does not carry them.
func panelRanges(p *engine.Panel) (chart.ContinuousRange, chart.ContinuousRange) {
	if p.Matrix != nil {
		n := float64(len(p.Matrix.Labels))
		return chart.ContinuousRange{Min: 0, Max: n}, chart.ContinuousRange{Min: 0, Max: n}
	}
	bx, by := contentBounds(p)
	if p.XRange != nil {
		bx = *p.XRange
	}
	if p.YRange != nil {
		by = *p.YRange
	}
	return toRange(bx), toRange(by)
}

func toRange(r engine.Range) chart.ContinuousRange {
	if !r.Valid() || math.IsInf(r.Low, 0) || math.IsInf(r.High, 0) {
		return chart.ContinuousRange{Min: 0, Max: 1}
	}
	if r.Span() == 0 {
		return chart.ContinuousRange{Min: r.Low - 0.5, Max: r.High + 0.5}
	}
	return chart.ContinuousRange{Min: r.Low, Max: r.High}
}

func contentBounds(p *engine.Panel) (engine.Range, engine.Range) {
	bx := engine.Range{Low: math.Inf(1), High: math.Inf(-1)}
	by := bx
	add := func(x, y float64) {
		bx = engine.Range{Low: math.Min(bx.Low, x), High: math.Max(bx.High, x)}
		by = engine.Range{Low: math.Min(by.Low, y), High: math.Max(by.High, y)}
	}
	for _, s := range p.Series {
		for _, pt := range s.Points {
			add(pt.X, pt.Y)
		}
		for _, pt := range s.Upper {
			add(pt.X, pt.Y)
		}
	}
	for _, b := range p.Bins {
		if p.Orientation == engine.Horizontal {
			add(0, b.Low)
			add(float64(b.Count), b.High)
		} else {
			add(b.Low, 0)
			add(b.High, float64(b.Count))
		}
	}
	if g := p.Grid; g != nil && len(g.X) > 0 && len(g.Y) > 0 {
		add(g.X[0], g.Y[0])
		add(g.X[len(g.X)-1], g.Y[len(g.Y)-1])
	}
	if hx := p.Hex; hx != nil {
		for _, c := range hx.Cells {
			add(c.X-hx.SX/2, c.Y-hx.SY/3)
			add(c.X+hx.SX/2, c.Y+hx.SY/3)
		}
	}
	return bx, by
}

// matrixTicks labels cell centers. Row 0 is drawn at the top.
func matrixTicks(labels []string) ([]chart.Tick, []chart.Tick) {
	n := len(labels)
	xt := make([]chart.Tick, 0, n+2)
	yt := make([]chart.Tick, 0, n+2)
	xt = append(xt, chart.Tick{Value: 0})
	yt = append(yt, chart.Tick{Value: 0})
	for i, l := range labels {
		xt = append(xt, chart.Tick{Value: float64(i) + 0.5, Label: l})
		yt = append(yt, chart.Tick{Value: float64(n-i) - 0.5, Label: l})
	}
	xt = append(xt, chart.Tick{Value: float64(n)})
	yt = append(yt, chart.Tick{Value: float64(n)})
	return xt, yt
}

// ============================================================================
// CONTENT
// ============================================================================

// mapper converts data coordinates to pixels inside the canvas box.
type mapper struct {
	box    chart.Box
	xr, yr chart.ContinuousRange
}

func newMapper(box chart.Box, xr, yr chart.ContinuousRange) mapper {
	xr.Domain = box.Width()
	yr.Domain = box.Height()
	return mapper{box: box, xr: xr, yr: yr}
}

func (m mapper) pt(x, y float64) (int, int) {
	px := m.box.Left + m.xr.Translate(x)
	py := m.box.Bottom - m.yr.Translate(y)
	return clampInt(px, m.box.Left, m.box.Right), clampInt(py, m.box.Top, m.box.Bottom)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func panelContent(p *engine.Panel, xr, yr chart.ContinuousRange) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		m := newMapper(box, xr, yr)
		if p.Grid != nil {
			drawGrid(r, m, p.Grid)
		}
		if p.Hex != nil {
			drawHex(r, m, p.Hex)
		}
		if len(p.Bins) > 0 {
			drawBins(r, m, p.Bins, p.Orientation)
		}
		for _, s := range p.Series {
			drawSeries(r, m, s, p.Orientation)
		}
		if p.Matrix != nil {
			drawMatrix(r, m, p.Matrix, defaults)
		}
	}
}

func polygon(r chart.Renderer, m mapper, pts []engine.ChartPoint, fill, stroke drawing.Color) {
	if len(pts) < 3 {
		return
	}
	r.SetFillColor(fill)
	r.SetStrokeColor(stroke)
	r.SetStrokeWidth(0.5)
	x, y := m.pt(pts[0].X, pts[0].Y)
	r.MoveTo(x, y)
	for _, pt := range pts[1:] {
		x, y = m.pt(pt.X, pt.Y)
		r.LineTo(x, y)
	}
	r.Close()
	r.FillStroke()
}

func polyline(r chart.Renderer, m mapper, pts []engine.ChartPoint, c drawing.Color, width float64) {
	if len(pts) < 2 {
		return
	}
	r.SetStrokeColor(c)
	r.SetStrokeWidth(width)
	x, y := m.pt(pts[0].X, pts[0].Y)
	r.MoveTo(x, y)
	for _, pt := range pts[1:] {
		x, y = m.pt(pt.X, pt.Y)
		r.LineTo(x, y)
	}
	r.Stroke()
}

func drawSeries(r chart.Renderer, m mapper, s engine.ChartSeries, orient engine.Orientation) {
	c := hexColor(s.Color)
	switch s.Style {
	case engine.StyleScatter:
		r.SetFillColor(c.WithAlpha(210))
		r.SetStrokeColor(drawing.ColorWhite)
		r.SetStrokeWidth(0.5)
		for _, pt := range s.Points {
			x, y := m.pt(pt.X, pt.Y)
			r.Circle(3, x, y)
			r.FillStroke()
		}
	case engine.StyleLine:
		polyline(r, m, s.Points, c, 2)
	case engine.StyleArea:
		if len(s.Points) < 2 {
			return
		}
		first, last := s.Points[0], s.Points[len(s.Points)-1]
		area := append([]engine.ChartPoint{}, s.Points...)
		if orient == engine.Horizontal {
			area = append(area, engine.ChartPoint{X: 0, Y: last.Y}, engine.ChartPoint{X: 0, Y: first.Y})
		} else {
			area = append(area, engine.ChartPoint{X: last.X, Y: 0}, engine.ChartPoint{X: first.X, Y: 0})
		}
		polygon(r, m, area, c.WithAlpha(64), drawing.ColorTransparent)
		polyline(r, m, s.Points, c, 1.5)
	case engine.StyleBand:
		band := append([]engine.ChartPoint{}, s.Points...)
		for i := len(s.Upper) - 1; i >= 0; i-- {
			band = append(band, s.Upper[i])
		}
		polygon(r, m, band, c.WithAlpha(48), drawing.ColorTransparent)
	}
}

func drawBins(r chart.Renderer, m mapper, bins []engine.Bin, orient engine.Orientation) {
	fill := accent.WithAlpha(170)
	for _, b := range bins {
		if b.Count == 0 {
			continue
		}
		n := float64(b.Count)
		var rect []engine.ChartPoint
		if orient == engine.Horizontal {
			rect = []engine.ChartPoint{{X: 0, Y: b.Low}, {X: n, Y: b.Low}, {X: n, Y: b.High}, {X: 0, Y: b.High}}
		} else {
			rect = []engine.ChartPoint{{X: b.Low, Y: 0}, {X: b.High, Y: 0}, {X: b.High, Y: n}, {X: b.Low, Y: n}}
		}
		polygon(r, m, rect, fill, drawing.ColorWhite)
	}
}

func drawHex(r chart.Renderer, m mapper, hx *engine.HexBins) {
	ramp := lightRamp(accent)
	for _, c := range hx.Cells {
		t := float64(c.Count) / float64(max(1, hx.MaxCount))
		v := engine.HexVertices(c.X, c.Y, hx.SX, hx.SY)
		col := ramp.At(t)
		polygon(r, m, v[:], col, col)
	}
}

func drawGrid(r chart.Renderer, m mapper, g *engine.DensityGrid) {
	if len(g.Levels) == 0 || len(g.X) < 2 || len(g.Y) < 2 {
		return
	}
	if !g.Filled {
		for k, level := range g.Levels {
			c := viridis.At(float64(k) / float64(max(1, len(g.Levels)-1)))
			for _, seg := range contourSegments(g, level) {
				polyline(r, m, seg[:], c, 1.2)
			}
		}
		return
	}

	dx := (g.X[1] - g.X[0]) / 2
	dy := (g.Y[1] - g.Y[0]) / 2
	for j, y := range g.Y {
		for i, x := range g.X {
			k := levelIndex(g.Levels, g.Z[j][i])
			if k == 0 {
				continue
			}
			c := viridis.At(float64(k-1) / float64(max(1, len(g.Levels)-1)))
			cell := []engine.ChartPoint{{X: x - dx, Y: y - dy}, {X: x + dx, Y: y - dy}, {X: x + dx, Y: y + dy}, {X: x - dx, Y: y + dy}}
			polygon(r, m, cell, c, c)
		}
	}
}

// levelIndex counts the levels at or below z.
func levelIndex(levels []float64, z float64) int {
	k := 0
	for k < len(levels) && z >= levels[k] {
		k++
	}
	return k
}

// contourSegments runs marching squares over g for one level.
func contourSegments(g *engine.DensityGrid, level float64) [][2]engine.ChartPoint {
	var segs [][2]engine.ChartPoint
	for j := 0; j+1 < len(g.Y); j++ {
		for i := 0; i+1 < len(g.X); i++ {
			z := [4]float64{g.Z[j][i], g.Z[j][i+1], g.Z[j+1][i+1], g.Z[j+1][i]}
			p := [4]engine.ChartPoint{
				{X: g.X[i], Y: g.Y[j]},
				{X: g.X[i+1], Y: g.Y[j]},
				{X: g.X[i+1], Y: g.Y[j+1]},
				{X: g.X[i], Y: g.Y[j+1]},
			}
			var cross []engine.ChartPoint
			for e := 0; e < 4; e++ {
				a, b := e, (e+1)%4
				if (z[a] >= level) == (z[b] >= level) {
					continue
				}
				t := (level - z[a]) / (z[b] - z[a])
				cross = append(cross, engine.ChartPoint{
					X: p[a].X + t*(p[b].X-p[a].X),
					Y: p[a].Y + t*(p[b].Y-p[a].Y),
				})
			}
			for k := 0; k+1 < len(cross); k += 2 {
				segs = append(segs, [2]engine.ChartPoint{cross[k], cross[k+1]})
			}
		}
	}
	return segs
}

func drawMatrix(r chart.Renderer, m mapper, mx *engine.Matrix, defaults chart.Style) {
	n := len(mx.Labels)
	r.SetFont(defaults.GetFont())
	r.SetFontSize(9)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			y0 := float64(n - i - 1)
			cell := []engine.ChartPoint{
				{X: float64(j), Y: y0}, {X: float64(j + 1), Y: y0},
				{X: float64(j + 1), Y: y0 + 1}, {X: float64(j), Y: y0 + 1},
			}
			fill := undefined
			text := ink
			if mx.Defined[i][j] {
				v := mx.Values[i][j]
				fill = coolwarm.At((v + 1) / 2)
				if math.Abs(v) > 0.6 {
					text = drawing.ColorWhite
				}
			}
			polygon(r, m, cell, fill, drawing.ColorWhite)

			label := mx.Annotations[i][j]
			cx, cy := m.pt(float64(j)+0.5, y0+0.5)
			tb := r.MeasureText(label)
			r.SetFontColor(text)
			r.Text(label, cx-tb.Width()/2, cy+tb.Height()/2)
		}
	}
}
