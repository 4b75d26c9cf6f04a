// Package render rasterizes engine chart artifacts into PNG figures.
//
// A figure is a title band, a grid of panels laid out by their Row/Col and
// an optional hue legend on the right. Jointplots give the main panel five
// times the space of its marginals.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/spektr-org/marquee/engine"
	"github.com/spektr-org/marquee/logging"
)

const (
	titleHeight   = 30
	legendWidth   = 130
	jointRatio    = 5
	minPanelSide  = 180
	legendSwatch  = 10
	legendSpacing = 18
)

// Option configures a figure.
type Option func(*options)

type options struct {
	Width  int
	Height int
}

// WithSize sets the figure size in pixels. Non-positive values are ignored.
func WithSize(width, height int) Option {
	return func(o *options) {
		if width > 0 {
			o.Width = width
		}
		if height > 0 {
			o.Height = height
		}
	}
}

func applyOptions(opts []Option) *options {
	o := &options{Width: 640, Height: 480}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// PNG writes the figure for c to w.
func PNG(w io.Writer, c *engine.Chart, opts ...Option) error {
	img, err := Image(c, opts...)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Image rasterizes c. The figure grows past the requested size when needed to
// give every grid cell at least minPanelSide pixels.
func Image(c *engine.Chart, opts ...Option) (*image.RGBA, error) {
	if c == nil {
		return nil, fmt.Errorf("render: nil chart")
	}
	start := time.Now()
	o := applyOptions(opts)

	rows, cols := max(1, c.Rows), max(1, c.Cols)
	legendW := 0
	if len(c.Legend) > 0 {
		legendW = legendWidth
	}
	width := max(o.Width, legendW+cols*minPanelSide)
	height := max(o.Height, titleHeight+rows*minPanelSide)

	fig := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(fig, fig.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	drawText(fig, c.Title, width/2, titleHeight-10, true)

	joint := c.Kind == engine.ChartJoint && rows == 2 && cols == 2
	xs := splits(width-legendW, cols, joint, false)
	ys := splits(height-titleHeight, rows, joint, true)

	for i := range c.Panels {
		p := &c.Panels[i]
		if p.Row >= rows || p.Col >= cols {
			continue
		}
		rect := image.Rect(xs[p.Col], titleHeight+ys[p.Row], xs[p.Col+1], titleHeight+ys[p.Row+1])
		img, err := renderPanel(p, rect.Dx(), rect.Dy())
		if err != nil {
			logging.Warn().Err(err).Str("chart", string(c.Kind)).Msg("panel render failed")
			img = noticeImage(rect.Dx(), rect.Dy(), "render failed")
		}
		draw.Draw(fig, rect, img, img.Bounds().Min, draw.Src)
	}

	if legendW > 0 {
		drawLegend(fig, c.Legend, width-legendW+10, titleHeight+20)
	}

	logging.Debug().
		Str("chart", string(c.Kind)).
		Int("panels", len(c.Panels)).
		Dur("elapsed", time.Since(start)).
		Msg("figure rendered")
	return fig, nil
}

// splits divides total pixels into n cells and returns the n+1 boundaries.
// Joint grids have two cells split 1:jointRatio, the small one first when
// smallFirst is set (the top marginal) and last otherwise (the right one).
func splits(total, n int, joint, smallFirst bool) []int {
	out := make([]int, n+1)
	if joint {
		if smallFirst {
			out[1] = total / (jointRatio + 1)
		} else {
			out[1] = total * jointRatio / (jointRatio + 1)
		}
		out[2] = total
		return out
	}
	for i := 1; i <= n; i++ {
		out[i] = total * i / n
	}
	return out
}

// ============================================================================
// TEXT — bitmap font overlays
// ============================================================================

var face = basicfont.Face7x13

func drawText(dst draw.Image, text string, x, y int, centered bool) {
	if text == "" {
		return
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(color.RGBA{R: 38, G: 38, B: 38, A: 255}), Face: face}
	if centered {
		x -= d.MeasureString(text).Ceil() / 2
	}
	d.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	d.DrawString(text)
}

func drawLegend(dst draw.Image, entries []engine.LegendEntry, x, y int) {
	for i, e := range entries {
		top := y + i*legendSpacing
		swatch := image.Rect(x, top, x+legendSwatch, top+legendSwatch)
		draw.Draw(dst, swatch, image.NewUniform(hexColor(e.Color)), image.Point{}, draw.Src)
		drawText(dst, e.Label, x+legendSwatch+6, top+legendSwatch, false)
	}
}

// noticeImage is a blank panel with msg in the middle.
func noticeImage(w, h int, msg string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 247, G: 247, B: 247, A: 255}), image.Point{}, draw.Src)
	drawText(img, msg, w/2, h/2, true)
	return img
}
