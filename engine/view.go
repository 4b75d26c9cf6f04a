package engine

import "math"

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns the dataset. It reads through this interface.
//
// Implementations:
//   SliceView  — wraps []Record (CSV ingestion)
//   SubView    — filtered subset (indices into parent, zero-copy)
//
// A filtered view never copies rows: it is a list of indices into its parent,
// so the loaded dataset stays immutable for the whole process lifetime.
// ============================================================================

// RecordView provides indexed, read-only access to a table.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	// Measure returns NaN for a missing value or unknown key.
	Measure(index int, key string) float64
	DimensionKeys() []string
	MeasureKeys() []string
	// Columns lists every column in source order.
	Columns() []string
	// Origin maps a row to its index in the root dataset.
	Origin(index int) int
}

// HasMeasure reports whether key is one of the view's measures.
func HasMeasure(view RecordView, key string) bool {
	for _, k := range view.MeasureKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// HasDimension reports whether key is one of the view's dimensions.
func HasDimension(view RecordView, key string) bool {
	for _, k := range view.DimensionKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// ============================================================================
// SLICE VIEW — wraps []Record
// ============================================================================

// SliceView wraps a []Record slice as a RecordView.
type SliceView struct {
	records []Record
	columns []string
	dimKeys []string
	mesKeys []string
}

// NewSliceView creates a RecordView from records. columns fixes the column
// order; dimension and measure keys are taken from the records in that order.
// When columns is empty, keys are discovered from the records.
func NewSliceView(records []Record, columns ...string) *SliceView {
	v := &SliceView{records: records}
	v.cacheKeys(columns)
	return v
}

func (v *SliceView) cacheKeys(columns []string) {
	dimSeen := make(map[string]bool)
	mesSeen := make(map[string]bool)
	for _, r := range v.records {
		for k := range r.Dimensions {
			dimSeen[k] = true
		}
		for k := range r.Measures {
			mesSeen[k] = true
		}
	}

	if len(columns) == 0 {
		columns = sortedKeys(dimSeen, mesSeen)
	}
	v.columns = columns
	for _, c := range columns {
		switch {
		case mesSeen[c]:
			v.mesKeys = append(v.mesKeys, c)
		case dimSeen[c]:
			v.dimKeys = append(v.dimKeys, c)
		}
	}
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.records) {
		return ""
	}
	return v.records[i].Dimensions[key]
}

func (v *SliceView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.records) {
		return math.NaN()
	}
	val, ok := v.records[i].Measures[key]
	if !ok {
		return math.NaN()
	}
	return val
}

func (v *SliceView) DimensionKeys() []string { return v.dimKeys }
func (v *SliceView) MeasureKeys() []string   { return v.mesKeys }
func (v *SliceView) Columns() []string       { return v.columns }
func (v *SliceView) Origin(i int) int        { return i }

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a subset of a parent RecordView in parent order.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.indices) {
		return math.NaN()
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }
func (v *SubView) Columns() []string       { return v.parent.Columns() }

func (v *SubView) Origin(i int) int {
	if i < 0 || i >= len(v.indices) {
		return -1
	}
	return v.parent.Origin(v.indices[i])
}
