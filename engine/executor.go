package engine

import (
	"fmt"

	"github.com/spektr-org/marquee/logging"
)

// ============================================================================
// EXECUTOR — Plot Dispatcher
// ============================================================================
// Entry points:
//   Render(mode, view, opts...)  — dispatch a plot mode over a filtered view
//
// Pipeline:
//   1. Apply filters from FilterSpec → SubView
//   2. Dispatch to exactly one chart routine
//   3. Return the Chart artifact
//
// The five joint modes share one routine; the sub-kind travels as an explicit
// JointKind and is never recovered from the label. Nothing here mutates the
// view or draws pixels.
// ============================================================================

// Render dispatches mode to its chart routine over view.
//
// Options:
//   - WithAxes(x, y) — bivariate columns (default CriticRating, AudienceRating)
//   - WithHistColumn / WithDistColumn — univariate columns
//   - WithHue(dim) — color LM series by a dimension (default Genre)
//   - WithBins, WithHexGridSize, WithKDEGridSize, WithBandwidthAdjust
func Render(mode PlotMode, view RecordView, opts ...Option) (*Chart, error) {
	if !mode.Valid() {
		logging.Error().Str("mode", mode.Key()).Msg("unknown plot mode")
		return nil, fmt.Errorf("render: %w: %q", ErrUnknownPlotMode, mode.Key())
	}
	cfg := applyOptions(opts)

	logging.Debug().
		Str("mode", mode.Key()).
		Str("joint", string(mode.Joint)).
		Int("rows", view.Len()).
		Msg("dispatching plot")

	var chart *Chart
	switch mode.Kind {
	case PlotLM:
		chart = buildLM(view, cfg)
	case PlotKDE:
		chart = buildKDE2D(view, cfg)
	case PlotHistogram:
		chart = buildHistogram(view, cfg)
	case PlotJoint:
		chart = buildJoint(mode.Joint, view, cfg)
	case PlotDistribution:
		chart = buildDistribution(view, cfg)
	default:
		logging.Error().Str("mode", mode.Key()).Msg("plot mode has no routine")
		return nil, fmt.Errorf("render: %w: %q", ErrUnknownPlotMode, mode.Key())
	}

	chart.Mode = mode.Key()
	return chart, nil
}
