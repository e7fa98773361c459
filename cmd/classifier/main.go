// Package main provides the entry point for the image classifier CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/image-classifier/internal/config"
)

var (
	rootConfigPath string
	rootDataDir    string
	rootLogLevel   string
	rootLogFormat  string
	rootStrict     bool

	// appConfig is the merged configuration, set before any command runs.
	appConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   "classifier",
	Short: "Image classification dashboard",
	Long: `Classifier uploads images, runs a simulated classification with staged progress,
and manages the classification history, the categories and the user preferences.

Configuration can be loaded from a JSON file using --config. CLASSIFIER_* environment
variables override the file, and command-line flags override both.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&rootDataDir, "data-dir", "", "Directory for the database and exports (default "+config.DefaultDataDir+")")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&rootLogFormat, "log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().BoolVar(&rootStrict, "strict", false, "Reject unknown filter and sort keys")
}

// setup resolves the configuration in order file, environment, flags and
// installs the logger.
func setup(cmd *cobra.Command, _ []string) error {
	var cfg config.Config
	if rootConfigPath != "" {
		loaded, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = rootDataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = rootLogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = rootLogFormat
	}
	if flags.Changed("strict") {
		cfg.StrictKeys = rootStrict
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	appConfig = cfg.MergeWithDefaults(config.Defaults())

	opts := &slog.HandlerOptions{Level: appConfig.Level()}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if appConfig.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
