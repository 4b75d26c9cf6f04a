package engine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================================
// STATISTICS — estimators behind every chart
// ============================================================================
// All estimators are closed-form: no sampling, no bootstrap, no seeds.
// The same view always yields the same fitted lines, densities and bins.
// Missing values (NaN) are skipped pairwise.
// ============================================================================

// Confidence level of regression bands.
const confidenceLevel = 0.95

// kdeCut extends the density support this many bandwidths past the data.
const kdeCut = 3.0

// maxAutoBins caps the automatic bin rule on pathological inputs.
const maxAutoBins = 200

// finiteColumn returns the non-NaN values of a measure in view order.
func finiteColumn(view RecordView, key string) []float64 {
	out := make([]float64, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		if v := view.Measure(i, key); !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// pairedColumns returns (x, y) for rows where both measures are finite.
func pairedColumns(view RecordView, xKey, yKey string) ([]float64, []float64) {
	xs := make([]float64, 0, view.Len())
	ys := make([]float64, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		x, y := view.Measure(i, xKey), view.Measure(i, yKey)
		if isFinite(x) && isFinite(y) {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func sortedCopy(xs []float64) []float64 {
	out := append([]float64(nil), xs...)
	sort.Float64s(out)
	return out
}

// hasSpread reports whether xs has at least two values and non-zero variance.
func hasSpread(xs []float64) bool {
	if len(xs) < 2 {
		return false
	}
	return floats.Max(xs) > floats.Min(xs)
}

// ============================================================================
// DESCRIBE
// ============================================================================

// describe computes count, mean, sample std, min, quartiles and max.
func describe(column string, xs []float64) ColumnStats {
	cs := ColumnStats{Column: column, Count: len(xs)}
	if len(xs) == 0 {
		return cs
	}
	sorted := sortedCopy(xs)
	cs.Mean = ptr(stat.Mean(sorted, nil))
	if len(sorted) > 1 {
		cs.Std = ptr(stat.StdDev(sorted, nil))
	}
	cs.Min = ptr(sorted[0])
	cs.Q25 = ptr(quantileLinear(sorted, 0.25))
	cs.Q50 = ptr(quantileLinear(sorted, 0.50))
	cs.Q75 = ptr(quantileLinear(sorted, 0.75))
	cs.Max = ptr(sorted[len(sorted)-1])
	return cs
}

// quantileLinear interpolates between closest ranks: h = (n-1)p.
// sorted must be non-empty and ascending.
func quantileLinear(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

func ptr(v float64) *float64 { return &v }

// ============================================================================
// CORRELATION & REGRESSION
// ============================================================================

// pearson returns the Pearson correlation of xs and ys.
// ok is false when it is undefined (fewer than two pairs or zero variance).
func pearson(xs, ys []float64) (r float64, ok bool) {
	if !hasSpread(xs) || !hasSpread(ys) {
		return 0, false
	}
	r = stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0, false
	}
	return math.Max(-1, math.Min(1, r)), true
}

// linearFit is an ordinary least squares fit y = Alpha + Beta*x.
type linearFit struct {
	Alpha float64
	Beta  float64
	N     int
	meanX float64
	sxx   float64
	sigma float64 // residual standard error
}

// fitLinear fits y on x. ok is false when x has no spread.
func fitLinear(xs, ys []float64) (linearFit, bool) {
	if !hasSpread(xs) {
		return linearFit{}, false
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	fit := linearFit{Alpha: alpha, Beta: beta, N: len(xs), meanX: stat.Mean(xs, nil)}

	var sse float64
	for i, x := range xs {
		d := x - fit.meanX
		fit.sxx += d * d
		r := ys[i] - fit.Predict(x)
		sse += r * r
	}
	if fit.N > 2 {
		fit.sigma = math.Sqrt(sse / float64(fit.N-2))
	}
	return fit, true
}

// Predict evaluates the fitted line.
func (f linearFit) Predict(x float64) float64 {
	return f.Alpha + f.Beta*x
}

// HasBand reports whether a confidence band is defined (needs n > 2).
func (f linearFit) HasBand() bool {
	return f.N > 2 && f.sxx > 0
}

// Band returns the confidence interval of the mean response at x,
// using the Student-t critical value with n-2 degrees of freedom.
func (f linearFit) Band(x float64) (lo, hi float64) {
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(f.N - 2)}.Quantile(0.5 + confidenceLevel/2)
	d := x - f.meanX
	se := f.sigma * math.Sqrt(1/float64(f.N)+d*d/f.sxx)
	y := f.Predict(x)
	return y - t*se, y + t*se
}

// ============================================================================
// KERNEL DENSITY
// ============================================================================

// scottBandwidth is Scott's rule for a d-dimensional Gaussian kernel:
// std * n^(-1/(d+4)), scaled by adjust.
func scottBandwidth(xs []float64, dims int, adjust float64) float64 {
	n := float64(len(xs))
	return stat.StdDev(xs, nil) * math.Pow(n, -1/float64(dims+4)) * adjust
}

// supportGrid spans [min - cut*bw, max + cut*bw] with n points.
func supportGrid(xs []float64, bw float64, n int) []float64 {
	lo := floats.Min(xs) - kdeCut*bw
	hi := floats.Max(xs) + kdeCut*bw
	return floats.Span(make([]float64, n), lo, hi)
}

// kde1D evaluates a Gaussian KDE of xs at every grid point.
func kde1D(xs, grid []float64, bw float64) []float64 {
	density := make([]float64, len(grid))
	norm := 1 / (float64(len(xs)) * bw)
	for i, g := range grid {
		var sum float64
		for _, x := range xs {
			sum += distuv.UnitNormal.Prob((g - x) / bw)
		}
		density[i] = sum * norm
	}
	return density
}

// kde2D evaluates a product-Gaussian KDE on the gx × gy grid.
// The result is indexed [j][i] for (gx[i], gy[j]).
func kde2D(xs, ys, gx, gy []float64, bwx, bwy float64) [][]float64 {
	// Kernel factors separate per axis; precompute them once.
	kx := make([][]float64, len(gx))
	for i, g := range gx {
		kx[i] = make([]float64, len(xs))
		for k, x := range xs {
			kx[i][k] = distuv.UnitNormal.Prob((g - x) / bwx)
		}
	}
	ky := make([][]float64, len(gy))
	for j, g := range gy {
		ky[j] = make([]float64, len(ys))
		for k, y := range ys {
			ky[j][k] = distuv.UnitNormal.Prob((g - y) / bwy)
		}
	}

	norm := 1 / (float64(len(xs)) * bwx * bwy)
	z := make([][]float64, len(gy))
	for j := range gy {
		z[j] = make([]float64, len(gx))
		for i := range gx {
			z[j][i] = floats.Dot(kx[i], ky[j]) * norm
		}
	}
	return z
}

// ============================================================================
// HISTOGRAM
// ============================================================================

// autoBinEdges picks equal-width bin edges with the smaller of the
// Freedman–Diaconis and Sturges widths (Sturges alone when the IQR is 0).
func autoBinEdges(xs []float64) []float64 {
	sorted := sortedCopy(xs)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return []float64{lo - 0.5, hi + 0.5}
	}
	n := float64(len(sorted))
	width := (hi - lo) / (math.Log2(n) + 1)
	iqr := quantileLinear(sorted, 0.75) - quantileLinear(sorted, 0.25)
	if fd := 2 * iqr * math.Pow(n, -1.0/3); fd > 0 {
		width = math.Min(width, fd)
	}
	bins := int(math.Ceil((hi - lo) / width))
	bins = max(1, min(bins, maxAutoBins))
	return floats.Span(make([]float64, bins+1), lo, hi)
}

// fixedBinEdges splits the data range into n equal bins.
func fixedBinEdges(xs []float64, n int) []float64 {
	lo, hi := floats.Min(xs), floats.Max(xs)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	return floats.Span(make([]float64, n+1), lo, hi)
}

// histogram counts xs into the bins defined by edges.
// Bins are half-open except the last, which includes its upper edge.
func histogram(xs, edges []float64) []Bin {
	dividers := append([]float64(nil), edges...)
	last := len(dividers) - 1
	dividers[last] = math.Nextafter(dividers[last], math.Inf(1))

	counts := stat.Histogram(nil, dividers, sortedCopy(xs), nil)
	bins := make([]Bin, len(counts))
	for i, c := range counts {
		bins[i] = Bin{Low: edges[i], High: edges[i+1], Count: int(c)}
	}
	return bins
}

// freedmanDiaconisBins is the bin count of the Freedman–Diaconis rule,
// falling back to sqrt(n) when the IQR is zero.
func freedmanDiaconisBins(xs []float64) int {
	sorted := sortedCopy(xs)
	n := float64(len(sorted))
	h := 2 * (quantileLinear(sorted, 0.75) - quantileLinear(sorted, 0.25)) / math.Cbrt(n)
	if h == 0 {
		return max(1, int(math.Sqrt(n)))
	}
	return max(1, int(math.Ceil((sorted[len(sorted)-1]-sorted[0])/h)))
}

// ============================================================================
// CONTOUR LEVELS
// ============================================================================

// Default contour count and the lowest density proportion drawn.
const (
	contourLevels = 10
	contourThresh = 0.05
)

// isoLevels returns ascending density levels such that the region above the
// k-th level holds 1 - p_k of the total mass, for p spaced from thresh to 1.
func isoLevels(z [][]float64, n int, thresh float64) []float64 {
	var values []float64
	for _, row := range z {
		values = append(values, row...)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))
	total := floats.Sum(values)
	if total <= 0 {
		return nil
	}
	cum := make([]float64, len(values))
	floats.CumSum(cum, values)
	floats.Scale(1/total, cum)

	props := floats.Span(make([]float64, n), thresh, 1)
	levels := make([]float64, n)
	for k, p := range props {
		idx := sort.SearchFloat64s(cum, 1-p)
		idx = min(idx, len(values)-1)
		levels[k] = values[idx]
	}
	return levels
}
