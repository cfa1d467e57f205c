package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mj1618/listscan/internal/config"
	"github.com/mj1618/listscan/internal/output"
	"github.com/mj1618/listscan/internal/version"
)

var (
	cfgFile  string
	verbose  bool
	scenario string

	logger *zap.Logger
	conf   *config.Manager
)

var rootCmd = &cobra.Command{
	Use:   "listscan",
	Short: "Harvest entries from a virtualized chat list",
	Long: `listscan reads the rows of a chat list owned by another app through its
accessibility tree. It walks the visible rows, scrolls the list forward and
repeats until the list stops yielding new entries, publishing every new entry
as an AutoScan event.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./listscan.yaml or $HOME/.listscan/listscan.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&scenario, "scenario", "", "Scenario file describing the list to harvest")
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		conf, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if f := conf.File(); f != "" {
			logger.Debug("loaded config", zap.String("file", f))
		}

		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	}
}
