package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spektr-org/marquee/config"
	"github.com/spektr-org/marquee/logging"
)

// ============================================================================
// MARQUEE CLI — movie ratings dashboard
// ============================================================================

const version = "0.3.0"

var (
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "marquee",
	Short:         "Movie ratings dashboard",
	Long:          "Marquee filters a movie ratings table by genre and numeric ranges and charts the result.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.Logging.Level = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			loaded.Logging.Format = logFormat
		}
		logging.Init(logging.Config{
			Level:  loaded.Logging.Level,
			Format: loaded.Logging.Format,
			Caller: loaded.Logging.Caller,
		})
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $MARQUEE_CONFIG or ./marquee.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format: json or console")

	rootCmd.AddCommand(serveCmd, renderCmd, describeCmd, modesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
