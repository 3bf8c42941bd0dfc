package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/axlocate/axlocate/internal/config"
	"github.com/axlocate/axlocate/internal/output"
	"github.com/axlocate/axlocate/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "axlocate",
	Short: "Locate and act on UI elements via accessibility APIs",
	Long: "A CLI tool that locates elements in native desktop applications by\n" +
		"selector, waits for them to appear, and clicks, types or reads them.",
}

// cfg holds the resolved defaults for timeout, poll interval and depth.
// Flags override it per invocation.
var cfg config.Config

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().Int("timeout", 0, "Wait timeout in milliseconds (0 = default)")
	rootCmd.PersistentFlags().Int("poll", 0, "Poll interval in milliseconds (0 = default)")
	rootCmd.PersistentFlags().Int("max-depth", 0, "Max tree depth to search (0 = default)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log every resolution attempt to stderr")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()

		if ms, _ := rootCmd.PersistentFlags().GetInt("timeout"); ms > 0 {
			cfg.Timeout = time.Duration(ms) * time.Millisecond
		}
		if ms, _ := rootCmd.PersistentFlags().GetInt("poll"); ms > 0 {
			cfg.Poll = time.Duration(ms) * time.Millisecond
		}
		if d, _ := rootCmd.PersistentFlags().GetInt("max-depth"); d > 0 {
			cfg.MaxDepth = d
		}

		level := cfg.LogLevel
		if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		if pretty, _ := rootCmd.PersistentFlags().GetBool("pretty"); pretty {
			output.PrettyOutput = true
		}
		return nil
	}
}
