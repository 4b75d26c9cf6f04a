package engine

// ============================================================================
// ENGINE OPTIONS — Functional options for Render() and the aggregate views
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	XColumn     string   // bivariate x axis
	YColumn     string   // bivariate y axis
	HistColumn  string   // histogram column
	DistColumn  string   // distribution column
	Hue         string   // dimension used for color; "" disables hue
	PairColumns []string // pairplot grid columns
	Bins        int      // fixed histogram bin count; 0 = automatic
	HexGridSize int      // hexagons across the x range; 0 = derive from the data
	KDEGridSize int      // evaluation points per axis
	Adjust      float64  // bandwidth multiplier
	HeadRows    int      // overview head length
}

// WithAxes sets the bivariate x and y columns.
func WithAxes(x, y string) Option {
	return func(c *config) {
		c.XColumn = x
		c.YColumn = y
	}
}

// WithHistColumn sets the column drawn by the histogram mode.
func WithHistColumn(column string) Option {
	return func(c *config) {
		c.HistColumn = column
	}
}

// WithDistColumn sets the column drawn by the distribution mode.
func WithDistColumn(column string) Option {
	return func(c *config) {
		c.DistColumn = column
	}
}

// WithHue colors series by a dimension. Pass "" to disable.
func WithHue(dimension string) Option {
	return func(c *config) {
		c.Hue = dimension
	}
}

// WithPairColumns sets the pairplot grid columns.
func WithPairColumns(columns ...string) Option {
	return func(c *config) {
		c.PairColumns = append([]string(nil), columns...)
	}
}

// WithBins fixes the histogram bin count. n <= 0 restores the automatic rule.
func WithBins(n int) Option {
	return func(c *config) {
		c.Bins = n
	}
}

// WithHexGridSize sets the number of hexagons across the x range.
// 0 derives it from the data.
func WithHexGridSize(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.HexGridSize = n
		}
	}
}

// WithKDEGridSize sets the number of density evaluation points per axis.
func WithKDEGridSize(n int) Option {
	return func(c *config) {
		if n > 1 {
			c.KDEGridSize = n
		}
	}
}

// WithBandwidthAdjust scales every KDE bandwidth.
func WithBandwidthAdjust(adjust float64) Option {
	return func(c *config) {
		if adjust > 0 {
			c.Adjust = adjust
		}
	}
}

// WithHeadRows sets how many rows the overview head shows.
func WithHeadRows(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.HeadRows = n
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		XColumn:     "CriticRating",
		YColumn:     "AudienceRating",
		HistColumn:  "AudienceRating",
		DistColumn:  "CriticRating",
		Hue:         "Genre",
		PairColumns: []string{"CriticRating", "AudienceRating", "BudgetMillion"},
		KDEGridSize: 64,
		Adjust:      1.0,
		HeadRows:    10,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
