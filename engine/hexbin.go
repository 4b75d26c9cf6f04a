package engine

import (
	"math"
	"sort"
)

// ============================================================================
// HEXBIN — hexagonal binning on two offset rectangular lattices
// ============================================================================
// Lattice 1 holds centers at (xmin + i*sx, ymin + j*sy); lattice 2 is offset
// by half a cell in both directions. Each point goes to the nearer center,
// distance measured with y scaled by sqrt(3) so the cells are regular hexagons.
// ============================================================================

// hexbin bins paired points into hexagons with gridSize cells across x.
func hexbin(xs, ys []float64, gridSize int) *HexBins {
	nx := gridSize
	ny := max(1, int(float64(nx)/math.Sqrt(3)))

	xmin, xmax := expandSingular(xs)
	ymin, ymax := expandSingular(ys)
	pad := 1e-9 * (xmax - xmin)
	xmin -= pad
	xmax += pad

	sx := (xmax - xmin) / float64(nx)
	sy := (ymax - ymin) / float64(ny)

	type cellKey struct {
		lattice int
		i, j    int
	}
	counts := make(map[cellKey]int)

	for k := range xs {
		ix := (xs[k] - xmin) / sx
		iy := (ys[k] - ymin) / sy
		ix1, iy1 := math.RoundToEven(ix), math.RoundToEven(iy)
		ix2, iy2 := math.Floor(ix), math.Floor(iy)

		d1 := sq(ix-ix1) + 3*sq(iy-iy1)
		d2 := sq(ix-ix2-0.5) + 3*sq(iy-iy2-0.5)
		if d1 < d2 {
			counts[cellKey{1, int(ix1), int(iy1)}]++
		} else {
			counts[cellKey{2, int(ix2), int(iy2)}]++
		}
	}

	hb := &HexBins{GridSize: gridSize, SX: sx, SY: sy, Cells: make([]HexCell, 0, len(counts))}
	for key, n := range counts {
		cx := xmin + float64(key.i)*sx
		cy := ymin + float64(key.j)*sy
		if key.lattice == 2 {
			cx += sx / 2
			cy += sy / 2
		}
		hb.Cells = append(hb.Cells, HexCell{X: cx, Y: cy, Count: n})
		hb.MaxCount = max(hb.MaxCount, n)
	}
	sort.Slice(hb.Cells, func(a, b int) bool {
		if hb.Cells[a].Y != hb.Cells[b].Y {
			return hb.Cells[a].Y < hb.Cells[b].Y
		}
		return hb.Cells[a].X < hb.Cells[b].X
	})
	return hb
}

// expandSingular returns [min, max] of xs, widened by 10% when it is a point.
func expandSingular(xs []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	}
	if lo == hi {
		d := math.Max(math.Abs(lo)*0.1, 0.1)
		return lo - d, hi + d
	}
	return lo, hi
}

func sq(v float64) float64 { return v * v }

// HexVertices returns the six corners of a pointy-top hexagon centered at
// (cx, cy) on a lattice with spacing sx, sy.
func HexVertices(cx, cy, sx, sy float64) [6]ChartPoint {
	offsets := [6][2]float64{{0.5, -0.5}, {0.5, 0.5}, {0, 1}, {-0.5, 0.5}, {-0.5, -0.5}, {0, -1}}
	var out [6]ChartPoint
	for i, o := range offsets {
		out[i] = ChartPoint{X: cx + o[0]*sx, Y: cy + o[1]*sy/3}
	}
	return out
}
