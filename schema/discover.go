package schema

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ============================================================================
// AUTO-DISCOVERY — Classification from a typed data frame
// ============================================================================
// The frame's column types (inferred by the CSV reader) decide the role:
//   int / float  → measure, with observed min/max and missing count
//   string / bool → dimension, with its distinct values
//
// Classification pipeline per column:
//   1. Column type → role (dimension, measure)
//   2. Measures: scan for finite bounds and missing cells
//   3. Dimensions: distinct values in first-appearance order
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	Name   string // dataset name recorded in the Config
	Source string // where the frame came from ("csv", a file path, …)
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{Name: "dataset", Source: "csv"}
}

// DiscoverFromFrame generates a schema.Config from a gota DataFrame.
func DiscoverFromFrame(df dataframe.DataFrame, opts ...DiscoverOptions) (*Config, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("discover schema: %w", df.Err)
	}
	o := DefaultDiscoverOptions()
	if len(opts) > 0 {
		o = opts[0]
	}

	names := df.Names()
	if len(names) == 0 {
		return nil, fmt.Errorf("discover schema: no columns")
	}

	cfg := &Config{
		Name:           o.Name,
		Columns:        names,
		DiscoveredFrom: o.Source,
		DiscoveredAt:   time.Now().UTC().Format(time.RFC3339),
		Rows:           df.Nrow(),
	}

	types := df.Types()
	for i, name := range names {
		col := df.Col(name)
		switch types[i] {
		case series.Int, series.Float:
			cfg.Measures = append(cfg.Measures, analyzeMeasure(name, types[i], col))
		default:
			cfg.Dimensions = append(cfg.Dimensions, DefaultDimension(name, DistinctValues(col)))
		}
	}
	return cfg, nil
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

func analyzeMeasure(name string, typ series.Type, col series.Series) MeasureMeta {
	lo, hi := math.Inf(1), math.Inf(-1)
	missing := 0
	for _, v := range col.Float() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			missing++
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		lo, hi = math.NaN(), math.NaN()
	}

	kind := "float"
	if typ == series.Int {
		kind = "int"
	}
	m := DefaultMeasure(name, kind, lo, hi)
	m.Missing = missing
	return m
}

// DistinctValues returns the trimmed, non-missing values of a column in
// first-appearance order.
func DistinctValues(col series.Series) []string {
	nan := col.IsNaN()
	seen := make(map[string]bool)
	var values []string
	for i, raw := range col.Records() {
		if nan[i] {
			continue
		}
		v := strings.TrimSpace(raw)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toDisplayName cleans a header for human display.
// "CriticRating" → "Critic Rating", "budget_million" → "Budget Million"
func toDisplayName(s string) string {
	var b strings.Builder
	prev := ' '
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == '_' || r == '-':
			r = ' '
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			b.WriteRune(' ')
		}
		b.WriteRune(r)
		prev = r
	}

	words := strings.Fields(b.String())
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
