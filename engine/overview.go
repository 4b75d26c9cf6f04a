package engine

// ============================================================================
// OVERVIEW — shape, head and describe statistics
// ============================================================================

// Describe summarizes view. An empty view yields zero counts, an empty head
// and statistics whose values are all undefined.
func Describe(view RecordView, opts ...Option) *Overview {
	cfg := applyOptions(opts)

	ov := &Overview{
		Rows:    view.Len(),
		Columns: len(view.Columns()),
		Head:    BuildHeadTable(view, cfg.HeadRows),
	}
	for _, key := range view.MeasureKeys() {
		ov.Stats = append(ov.Stats, describe(key, finiteColumn(view, key)))
	}
	ov.StatsTable = BuildStatsTable(ov.Stats)
	if view.Len() == 0 {
		ov.Notice = InsufficientData
	}
	return ov
}
