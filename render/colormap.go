package render

import (
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// colormap is a piecewise-linear RGB ramp over [0, 1].
type colormap []drawing.Color

// coolwarm is the diverging map used for correlation cells, -1 → 1.
var coolwarm = colormap{
	{R: 59, G: 76, B: 192, A: 255},
	{R: 98, G: 130, B: 234, A: 255},
	{R: 141, G: 176, B: 254, A: 255},
	{R: 184, G: 208, B: 249, A: 255},
	{R: 221, G: 221, B: 221, A: 255},
	{R: 245, G: 196, B: 173, A: 255},
	{R: 244, G: 154, B: 123, A: 255},
	{R: 222, G: 96, B: 77, A: 255},
	{R: 180, G: 4, B: 38, A: 255},
}

// viridis is the sequential map used for filled densities.
var viridis = colormap{
	{R: 68, G: 1, B: 84, A: 255},
	{R: 72, G: 40, B: 120, A: 255},
	{R: 62, G: 74, B: 137, A: 255},
	{R: 49, G: 104, B: 142, A: 255},
	{R: 38, G: 130, B: 142, A: 255},
	{R: 31, G: 158, B: 137, A: 255},
	{R: 53, G: 183, B: 121, A: 255},
	{R: 110, G: 206, B: 88, A: 255},
	{R: 181, G: 222, B: 43, A: 255},
	{R: 253, G: 231, B: 37, A: 255},
}

// At returns the color at t, clamped to [0, 1].
func (m colormap) At(t float64) drawing.Color {
	if math.IsNaN(t) || t <= 0 {
		return m[0]
	}
	if t >= 1 {
		return m[len(m)-1]
	}
	pos := t * float64(len(m)-1)
	i := int(pos)
	return lerp(m[i], m[i+1], pos-float64(i))
}

// lightRamp returns a map from near-white to c.
func lightRamp(c drawing.Color) colormap {
	return colormap{{R: 238, G: 240, B: 244, A: 255}, c}
}

func lerp(a, b drawing.Color, t float64) drawing.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + t*(float64(y)-float64(x))))
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// hexColor parses "#RRGGBB". Unparsable input yields the accent color.
func hexColor(s string) drawing.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return accent
	}
	return drawing.ColorFromHex(s)
}

var (
	accent    = drawing.Color{R: 76, G: 114, B: 176, A: 255}
	undefined = drawing.Color{R: 200, G: 200, B: 200, A: 255}
	ink       = drawing.Color{R: 38, G: 38, B: 38, A: 255}
)
