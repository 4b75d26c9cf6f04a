package engine

import (
	"fmt"
	"strconv"
)

// ============================================================================
// HEATMAP — annotated Pearson correlation matrix
// ============================================================================

// Correlation computes the pairwise-complete Pearson matrix of columns.
// With no columns it uses every measure of the view. Views with fewer than
// two rows return ErrInsufficientData. A pair with zero variance in either
// column is undefined and annotated "n/a".
func Correlation(view RecordView, columns ...string) (*Matrix, error) {
	if len(columns) == 0 {
		columns = view.MeasureKeys()
	}
	if view.Len() < 2 {
		return nil, fmt.Errorf("correlation over %d rows: %w", view.Len(), ErrInsufficientData)
	}

	n := len(columns)
	m := &Matrix{
		Labels:      append([]string(nil), columns...),
		Values:      make([][]float64, n),
		Defined:     make([][]bool, n),
		Annotations: make([][]string, n),
	}
	for i := range columns {
		m.Values[i] = make([]float64, n)
		m.Defined[i] = make([]bool, n)
		m.Annotations[i] = make([]string, n)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			xs, ys := pairedColumns(view, columns[i], columns[j])
			r, ok := pearson(xs, ys)
			if ok && i == j {
				r = 1
			}
			ann := "n/a"
			if ok {
				ann = strconv.FormatFloat(r, 'f', 2, 64)
			}
			for _, c := range [][2]int{{i, j}, {j, i}} {
				m.Values[c[0]][c[1]] = r
				m.Defined[c[0]][c[1]] = ok
				m.Annotations[c[0]][c[1]] = ann
			}
		}
	}
	return m, nil
}

// BuildHeatmap renders the correlation matrix as a chart. When the view is
// too small the chart carries an "insufficient data" notice and no matrix.
func BuildHeatmap(view RecordView, columns ...string) *Chart {
	chart := &Chart{Kind: ChartHeatmap, Title: "Correlation Heatmap", Rows: 1, Cols: 1}
	m, err := Correlation(view, columns...)
	if err != nil {
		chart.Notice = InsufficientData
		chart.Panels = []Panel{{Role: RoleMain, Notice: InsufficientData}}
		return chart
	}
	chart.Panels = []Panel{{Role: RoleMain, Matrix: m}}
	return chart
}
