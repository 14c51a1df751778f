// Package cmd provides CLI command implementations
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ChrisMcGann/sicmerge/pkg/config"
	"github.com/ChrisMcGann/sicmerge/pkg/logging"
)

var (
	// Persistent flags
	configFile string
	quiet      bool
	debug      bool
	logFile    string

	v   = viper.New()
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sicmerge",
	Short: "sicmerge - merge MASIC statistics into peptide hit results",
	Long: `sicmerge appends the scan statistics, selected ion chromatogram (SIC)
statistics and reporter ion intensities computed by MASIC to each row of a
tab-delimited peptide hit results file (for example an MS-GF+ _syn.txt file),
matching rows on scan number.

Features:
- Locates the MASIC files for a dataset even when names differ by trailing text
- Optionally splits results into one file per collision mode
- Creates DART-ID input files with duplicate PSMs consolidated
- Combines the results of several datasets into one table`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(dartidCmd)
	rootCmd.AddCommand(combineCmd)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: sicmerge.yaml in . or $HOME/.config/sicmerge)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Disable all log output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write the log to this file (rotated)")

	v.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	v.BindPFlag("log.file_path", rootCmd.PersistentFlags().Lookup("log-file"))
}

// initConfig loads the configuration and sets up logging before any command runs
func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(v, configFile)
	if err != nil {
		return err
	}

	if logFile != "" && cfg.Log.Mode == "console" {
		cfg.Log.Mode = "both"
	}

	logging.Init(cfg.Log, cfg.Quiet, cfg.Debug, os.Stderr)
	return nil
}
