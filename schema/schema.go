package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// SCHEMA — Describes the shape of a dataset for the engine and the dashboard
// ============================================================================
// Auto-discovered from a typed data frame at load time. The dashboard builds
// its sidebar controls from it (category values, slider labels and bounds);
// the dataset store uses it to check that a reload did not change the table's
// shape and that chart columns were read as numbers.
// ============================================================================

var (
	// ErrMissingColumns is returned by Require when the dataset lacks a column.
	ErrMissingColumns = errors.New("missing columns")

	// ErrNotNumeric is returned by RequireMeasures when a column was read as text.
	ErrNotNumeric = errors.New("column is not numeric")
)

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Columns lists every column in source order.
	Columns    []string        `json:"columns"`
	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`

	// Auto-discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty"`
	Rows           int    `json:"rows"`
}

// DimensionMeta describes a string column used for filtering and hue.
type DimensionMeta struct {
	Key         string   `json:"key"`
	DisplayName string   `json:"displayName"`
	Values      []string `json:"values"` // distinct values, first-appearance order
}

// MeasureMeta describes a numeric column with its observed bounds.
type MeasureMeta struct {
	Key         string  `json:"key"`
	DisplayName string  `json:"displayName"`
	Type        string  `json:"type"` // "int" or "float"
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Missing     int     `json:"missing"`
}

// DefaultDimension creates a DimensionMeta with sensible defaults.
func DefaultDimension(key string, values []string) DimensionMeta {
	return DimensionMeta{
		Key:         key,
		DisplayName: toDisplayName(key),
		Values:      values,
	}
}

// DefaultMeasure creates a MeasureMeta with sensible defaults.
func DefaultMeasure(key, typ string, lo, hi float64) MeasureMeta {
	return MeasureMeta{
		Key:         key,
		DisplayName: toDisplayName(key),
		Type:        typ,
		Min:         lo,
		Max:         hi,
	}
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// Dimension returns the dimension with key, or nil.
func (c Config) Dimension(key string) *DimensionMeta {
	for i := range c.Dimensions {
		if c.Dimensions[i].Key == key {
			return &c.Dimensions[i]
		}
	}
	return nil
}

// Measure returns the measure with key, or nil.
func (c Config) Measure(key string) *MeasureMeta {
	for i := range c.Measures {
		if c.Measures[i].Key == key {
			return &c.Measures[i]
		}
	}
	return nil
}

// Require checks that every named column exists.
func (c Config) Require(columns ...string) error {
	have := make(map[string]bool, len(c.Columns))
	for _, col := range c.Columns {
		have[col] = true
	}
	var missing []string
	for _, col := range columns {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

// RequireMeasures checks that every named column was discovered as numeric.
func (c Config) RequireMeasures(columns ...string) error {
	if err := c.Require(columns...); err != nil {
		return err
	}
	for _, col := range columns {
		if c.Measure(col) == nil {
			return fmt.Errorf("%w: %q", ErrNotNumeric, col)
		}
	}
	return nil
}

// SameShape reports whether other has the same columns with the same roles.
func (c Config) SameShape(other Config) bool {
	return equalStrings(c.Columns, other.Columns) &&
		equalStrings(c.DimensionKeys(), other.DimensionKeys()) &&
		equalStrings(c.MeasureKeys(), other.MeasureKeys())
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
