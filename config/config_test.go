package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Genre", cfg.Data.CategoryColumn)
	assert.Equal(t, "127.0.0.1:8501", cfg.Server.Addr())
	assert.Equal(t, []string{"CriticRating", "AudienceRating", "BudgetMillion"}, cfg.Plot.PairColumns)
}

func TestNumericColumns(t *testing.T) {
	p := Default().Plot
	assert.Equal(t, []string{"CriticRating", "AudienceRating", "BudgetMillion"}, p.NumericColumns())

	p.DistColumn = "Year"
	p.PairColumns = []string{"Year", "CriticRating"}
	assert.Equal(t, []string{"CriticRating", "AudienceRating", "Year"}, p.NumericColumns())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marquee.yaml")
	yaml := `
data:
  path: /srv/movies.csv
server:
  port: 9000
  write_timeout: 2m
plot:
  width: 800
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("MARQUEE_LOGGING__LEVEL", "debug")
	t.Setenv("MARQUEE_PLOT__PAIR_COLUMNS", "CriticRating, BudgetMillion")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/movies.csv", cfg.Data.Path)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, 800, cfg.Plot.Width)
	assert.Equal(t, 480, cfg.Plot.Height, "unset keys keep their defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"CriticRating", "BudgetMillion"}, cfg.Plot.PairColumns)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"empty path", func(c *Config) { c.Data.Path = "" }},
		{"one pair column", func(c *Config) { c.Plot.PairColumns = []string{"CriticRating"} }},
		{"axis is category", func(c *Config) { c.Plot.XColumn = "Genre" }},
		{"zero bandwidth", func(c *Config) { c.Plot.BandwidthAdjust = 0 }},
		{"negative bins", func(c *Config) { c.Plot.Bins = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "server.port", envTransform("MARQUEE_SERVER__PORT"))
	assert.Equal(t, "plot.hex_gridsize", envTransform("MARQUEE_PLOT__HEX_GRIDSIZE"))
	assert.Equal(t, "", envTransform(PathEnvVar))
}
