package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ============================================================================
// AGGREGATORS — Hue Grouping and Formatting via RecordView
// ============================================================================
// All functions operate on RecordView — zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view).
// ============================================================================

// Group is one hue level of a view.
type Group struct {
	Key   string
	Label string
	Color string
	View  RecordView
}

// GroupByHue splits view by a dimension in first-appearance order and assigns
// palette colors. An empty hue key yields one group holding the whole view.
func GroupByHue(view RecordView, hue string) []Group {
	if hue == "" || !HasDimension(view, hue) {
		return []Group{{Key: "all", Label: "All", Color: palette[0], View: view}}
	}
	groups := groupBySingle(view, hue)
	colors := assignColors(len(groups))
	for i := range groups {
		groups[i].Color = colors[i]
	}
	return groups
}

// ============================================================================
// GROUPING
// ============================================================================

func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// UniqueValues returns distinct non-empty values of a dimension in
// first-appearance order.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := view.Dimension(i, dimension)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}

// sortedKeys lists dimension keys then measure keys, each alphabetically.
func sortedKeys(dims, measures map[string]bool) []string {
	collect := func(set map[string]bool) []string {
		keys := make([]string, 0, len(set))
		for k := range set {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	}
	return append(collect(dims), collect(measures)...)
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// FormatNumber renders a cell value: integers without decimals, anything
// else with up to six significant decimals. NaN renders as "NaN".
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case v == math.Trunc(v) && math.Abs(v) < 1e15:
		return strconv.FormatFloat(v, 'f', 0, 64)
	default:
		return strconv.FormatFloat(RoundTo(v, 6), 'f', -1, 64)
	}
}

// FormatStat renders a describe statistic with six decimals, or "NaN".
func FormatStat(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return "NaN"
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

// RoundTo rounds to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// LabelForColumn splits a CamelCase column name into words:
// "CriticRating" → "Critic Rating".
func LabelForColumn(column string) string {
	var b strings.Builder
	runes := []rune(column)
	for i, r := range runes {
		if i > 0 && isUpper(r) && !isUpper(runes[i-1]) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
