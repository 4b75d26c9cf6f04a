// Package marquee provides a movie-ratings analytics dashboard.
// Filter a small tabular dataset, then chart it.
//
// Usage:
//
//	import "github.com/spektr-org/marquee/engine"
//
//	spec := engine.DefaultFilterSpec(view, "Genre")
//	spec.Categories["Genre"] = []string{"Comedy"}
//	filtered := engine.ApplyFilters(view, spec)
//
//	chart, err := engine.Render(engine.ModeJointHex, filtered,
//	    engine.WithAxes("CriticRating", "AudienceRating"),
//	)
//
// The engine takes a RecordView (any tabular source) and a FilterSpec, and
// returns render-ready output (chart artifacts, correlation matrix, overview
// tables). The render package turns a chart artifact into a PNG figure; the
// dashboard package wires both behind a single event handler, which the
// server package exposes over HTTP and cmd/marquee exposes as a CLI.
//
// The engine never performs I/O; all computation is local and deterministic.
package marquee
