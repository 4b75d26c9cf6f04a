package engine

import "fmt"

// ============================================================================
// TEXT BUILDER — Produces the one-line selection summary
// ============================================================================
// All functions operate on RecordView — zero-copy access to any data source.
// ============================================================================

// TextData is a short human-readable summary of a filtered view.
type TextData struct {
	Message    string `json:"message"`
	Rows       int    `json:"rows"`
	Total      int    `json:"total"`
	Categories int    `json:"categories"`
	OfTotal    int    `json:"ofTotal"`
}

// BuildText summarizes how much of dataset the filtered view keeps.
// categoryKey names the dimension counted in the summary ("" to omit).
func BuildText(filtered, dataset RecordView, categoryKey string) *TextData {
	td := &TextData{Rows: filtered.Len(), Total: dataset.Len()}

	if filtered.Len() == 0 {
		td.Message = "No records match the selected filters. Try broadening your selection."
		return td
	}

	td.Message = fmt.Sprintf("Showing %s of %s rows", FormatInt(td.Rows), FormatInt(td.Total))
	if categoryKey != "" {
		td.Categories = len(UniqueValues(filtered, categoryKey))
		td.OfTotal = len(UniqueValues(dataset, categoryKey))
		td.Message += fmt.Sprintf(" across %d of %d %s values", td.Categories, td.OfTotal, categoryKey)
	}
	td.Message += "."
	return td
}
