// Package config loads Marquee configuration.
//
// Layers, lowest priority first:
//
//  1. struct defaults (defaultConfig)
//  2. YAML file: $MARQUEE_CONFIG, else the first of DefaultConfigPaths that exists
//  3. environment: MARQUEE_SERVER__PORT=9000 → server.port
//
// The merged result is validated before it is returned.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variable names.
const EnvPrefix = "MARQUEE_"

// PathEnvVar overrides the config file location.
const PathEnvVar = "MARQUEE_CONFIG"

// DefaultConfigPaths are searched in order when PathEnvVar is unset.
var DefaultConfigPaths = []string{
	"marquee.yaml",
	"marquee.yml",
	"/etc/marquee/marquee.yaml",
}

// Config is the complete application configuration.
type Config struct {
	Data    DataConfig    `koanf:"data" validate:"required"`
	Server  ServerConfig  `koanf:"server" validate:"required"`
	Logging LoggingConfig `koanf:"logging" validate:"required"`
	Plot    PlotConfig    `koanf:"plot" validate:"required"`
}

// DataConfig locates the dataset and names its required columns.
type DataConfig struct {
	Path            string   `koanf:"path" validate:"required"`
	CategoryColumn  string   `koanf:"category_column" validate:"required"`
	RequiredColumns []string `koanf:"required_columns" validate:"dive,required"`
}

// ServerConfig configures the HTTP presentation layer.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimit       int           `koanf:"rate_limit" validate:"min=0"`
	RateWindow      time.Duration `koanf:"rate_window" validate:"gt=0"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// PlotConfig holds the fixed chart columns and figure tuning.
type PlotConfig struct {
	XColumn         string   `koanf:"x_column" validate:"required"`
	YColumn         string   `koanf:"y_column" validate:"required"`
	HistColumn      string   `koanf:"hist_column" validate:"required"`
	DistColumn      string   `koanf:"dist_column" validate:"required"`
	PairColumns     []string `koanf:"pair_columns" validate:"min=2,dive,required"`
	Width           int      `koanf:"width" validate:"min=160,max=4096"`
	Height          int      `koanf:"height" validate:"min=120,max=4096"`
	Bins            int      `koanf:"bins" validate:"min=0,max=500"`
	HexGridSize     int      `koanf:"hex_gridsize" validate:"min=0,max=200"`
	KDEGridSize     int      `koanf:"kde_gridsize" validate:"min=8,max=512"`
	BandwidthAdjust float64  `koanf:"bandwidth_adjust" validate:"gt=0"`
	HeadRows        int      `koanf:"head_rows" validate:"min=0,max=1000"`
}

func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Path:            "data/movies.csv",
			CategoryColumn:  "Genre",
			RequiredColumns: []string{"Genre", "CriticRating", "AudienceRating", "BudgetMillion"},
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8501,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second, // pairplot can take a while
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimit:       300,
			RateWindow:      time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Plot: PlotConfig{
			XColumn:         "CriticRating",
			YColumn:         "AudienceRating",
			HistColumn:      "AudienceRating",
			DistColumn:      "CriticRating",
			PairColumns:     []string{"CriticRating", "AudienceRating", "BudgetMillion"},
			Width:           640,
			Height:          480,
			Bins:            0, // 0 = numpy "auto" rule
			HexGridSize:     0, // 0 = derive from the data
			KDEGridSize:     64,
			BandwidthAdjust: 1.0,
			HeadRows:        10,
		},
	}
}

// NumericColumns returns every column a chart reads as a number, once each,
// in first-use order.
func (p PlotConfig) NumericColumns() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range append([]string{p.XColumn, p.YColumn, p.HistColumn, p.DistColumn}, p.PairColumns...) {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Default returns the built-in configuration without reading files or env.
func Default() *Config {
	return defaultConfig()
}

// Load merges defaults, the config file at path (or the discovered one when
// path is empty) and the environment, then validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitListFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks struct tags and cross-field rules.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return err
	}
	for _, col := range []string{c.Plot.XColumn, c.Plot.YColumn} {
		if col == c.Data.CategoryColumn {
			return fmt.Errorf("plot column %q is the category column", col)
		}
	}
	return nil
}

func findConfigFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransform maps MARQUEE_PLOT__HEX_GRIDSIZE to plot.hex_gridsize.
// MARQUEE_CONFIG is the file pointer, not a setting, and is dropped.
func envTransform(key string) string {
	if key == PathEnvVar {
		return ""
	}
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "__", ".")
}

var listPaths = []string{
	"data.required_columns",
	"server.cors_origins",
	"plot.pair_columns",
}

// splitListFields turns comma-separated env values into lists.
func splitListFields(k *koanf.Koanf) error {
	for _, path := range listPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		items := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		if err := k.Set(path, items); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
