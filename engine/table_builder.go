package engine

import (
	"fmt"
	"strconv"
)

// ============================================================================
// TABLE BUILDER — Produces TableData for the overview
// ============================================================================
// All functions operate on RecordView — zero-copy access to any data source.
// Column discovery uses view.Columns() instead of inspecting Record maps.
// ============================================================================

// BuildHeadTable lists the first n rows of view with their dataset index.
func BuildHeadTable(view RecordView, n int) *TableData {
	cols := view.Columns()
	columns := make([]Column, 0, len(cols)+1)
	columns = append(columns, Column{Key: "index", Label: "", Type: "index", Align: "right"})

	measure := make(map[string]bool, len(cols))
	for _, key := range view.MeasureKeys() {
		measure[key] = true
	}
	for _, key := range cols {
		col := Column{Key: key, Label: key, Type: "text", Align: "left"}
		if measure[key] {
			col.Type, col.Align = "number", "right"
		}
		columns = append(columns, col)
	}

	n = min(n, view.Len())
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := make([]string, 0, len(columns))
		row = append(row, strconv.Itoa(view.Origin(i)))
		for _, key := range cols {
			if measure[key] {
				row = append(row, FormatNumber(view.Measure(i, key)))
			} else {
				row = append(row, view.Dimension(i, key))
			}
		}
		rows = append(rows, row)
	}

	return &TableData{
		Title:   fmt.Sprintf("First %d Rows", n),
		Columns: columns,
		Rows:    rows,
	}
}

// BuildStatsTable lays out describe statistics with one row per statistic
// and one column per measure.
func BuildStatsTable(stats []ColumnStats) *TableData {
	columns := make([]Column, 0, len(stats)+1)
	columns = append(columns, Column{Key: "stat", Label: "", Type: "index", Align: "left"})
	for _, s := range stats {
		columns = append(columns, Column{Key: s.Column, Label: s.Column, Type: "number", Align: "right"})
	}

	type statRow struct {
		label string
		value func(ColumnStats) string
	}
	layout := []statRow{
		{"count", func(s ColumnStats) string { return strconv.FormatFloat(float64(s.Count), 'f', 6, 64) }},
		{"mean", func(s ColumnStats) string { return FormatStat(s.Mean) }},
		{"std", func(s ColumnStats) string { return FormatStat(s.Std) }},
		{"min", func(s ColumnStats) string { return FormatStat(s.Min) }},
		{"25%", func(s ColumnStats) string { return FormatStat(s.Q25) }},
		{"50%", func(s ColumnStats) string { return FormatStat(s.Q50) }},
		{"75%", func(s ColumnStats) string { return FormatStat(s.Q75) }},
		{"max", func(s ColumnStats) string { return FormatStat(s.Max) }},
	}

	rows := make([][]string, 0, len(layout))
	for _, r := range layout {
		row := make([]string, 0, len(columns))
		row = append(row, r.label)
		for _, s := range stats {
			row = append(row, r.value(s))
		}
		rows = append(rows, row)
	}

	return &TableData{
		Title:   "Statistics",
		Columns: columns,
		Rows:    rows,
	}
}
