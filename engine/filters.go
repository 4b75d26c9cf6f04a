package engine

import (
	"math"
)

// ============================================================================
// FILTERS — Categorical + Range Filtering via RecordView
// ============================================================================
// Single-pass filter: checks ALL constraints per record in one loop.
// Returns a SubView (index list into parent) in parent order without copying rows.
//
// Filtering never fails. Contradictory or malformed constraints (empty
// category list, inverted or NaN range, range on an unknown column) simply
// match nothing.
// ============================================================================

// ApplyFilters returns the rows of view that satisfy every constraint in spec.
func ApplyFilters(view RecordView, spec FilterSpec) RecordView {
	n := view.Len()

	sets := make(map[string]map[string]bool, len(spec.Categories))
	for dim, allowed := range spec.Categories {
		if len(allowed) == 0 {
			return newSubView(view, []int{})
		}
		sets[dim] = toSet(allowed)
	}

	known := make(map[string]bool)
	for _, k := range view.MeasureKeys() {
		known[k] = true
	}
	for key, r := range spec.Ranges {
		if !known[key] || !r.Valid() || math.IsNaN(r.Low) || math.IsNaN(r.High) {
			return newSubView(view, []int{})
		}
	}

	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if matches(view, i, sets, spec.Ranges) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

func matches(view RecordView, i int, sets map[string]map[string]bool, ranges map[string]Range) bool {
	for dim, set := range sets {
		if !set[view.Dimension(i, dim)] {
			return false
		}
	}
	for key, r := range ranges {
		if !r.Contains(view.Measure(i, key)) {
			return false
		}
	}
	return true
}

// DefaultFilterSpec selects everything: all distinct values of each category
// key (first-appearance order) and the observed [min, max] of every measure.
// Applying it to view yields every row that has no missing measure.
func DefaultFilterSpec(view RecordView, categoryKeys ...string) FilterSpec {
	spec := FilterSpec{
		Categories: make(map[string][]string, len(categoryKeys)),
		Ranges:     Bounds(view),
	}
	for _, key := range categoryKeys {
		spec.Categories[key] = UniqueValues(view, key)
	}
	return spec
}

// Bounds returns the observed [min, max] of every measure, ignoring NaN.
// Measures with no finite value are omitted.
func Bounds(view RecordView) map[string]Range {
	bounds := make(map[string]Range, len(view.MeasureKeys()))
	for _, key := range view.MeasureKeys() {
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := 0; i < view.Len(); i++ {
			v := view.Measure(i, key)
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if lo <= hi {
			bounds[key] = Range{Low: lo, High: hi}
		}
	}
	return bounds
}

// toSet converts a string slice to a lookup set. Matching is exact.
func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
