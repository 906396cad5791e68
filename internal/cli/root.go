// Package cli implements the shardkey command-line interface.
//
// Global state (config, logger, formatter) is initialized in
// PersistentPreRunE and released in PersistentPostRun, following the
// standard cobra pattern of package-level command variables.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shardkey/shardkey/internal/config"
	"github.com/shardkey/shardkey/internal/output"
	shkerr "github.com/shardkey/shardkey/pkg/errors"
)

// BuildInfo carries version identifiers injected at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter

	buildInfo BuildInfo
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "shardkey",
	Short: "Threshold secret sharing for the terminal",
	Long: `Shardkey splits secrets into shares using Shamir's Secret Sharing over
GF(2^8): any k of the dealt shares recover the secret exactly, while
fewer reveal nothing beyond its length.

Example:
  shardkey split --threshold 3 --shares 5 --in secret.bin --out-dir shares/
  shardkey recover shares/share-1.json shares/share-3.json shares/share-5.json
  shardkey info shares/`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initGlobals(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command.
func Execute(info BuildInfo) error {
	buildInfo = info
	err := rootCmd.Execute()
	if err != nil {
		formatErr(err)
	}
	return err
}

// formatErr prints the error with proper formatting.
func formatErr(err error) {
	format := output.FormatText
	if formatter != nil {
		format = formatter.Format()
	}
	if fmtErr := output.FormatError(os.Stderr, err, format); fmtErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (formatting failed: %v)\n", err, fmtErr)
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return shkerr.ExitCode(err)
}

// initGlobals initializes configuration, logger, and formatter.
func initGlobals(cmd *cobra.Command) error {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}

	var err error
	cfg, err = config.Load(config.Path(home))
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		}
		cfg = config.Defaults()
	}
	config.ApplyEnvironment(cfg)
	// The --home flag outranks SHARDKEY_HOME.
	cfg.Home = home

	for _, warning := range cfg.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}

	level := config.ParseLogLevel(cfg.Logging.Level)
	if verbose || cfg.IsVerbose() {
		level = config.LogLevelDebug
	}
	logger, err = config.NewLogger(level, cfg.Logging.File)
	if err != nil {
		// Logging is best-effort; fall back to a disabled logger.
		fmt.Fprintf(os.Stderr, "Warning: failed to open log file: %v\n", err)
		logger, _ = config.NewLogger(config.LogLevelOff, "")
	}

	explicit := outputFormat
	if explicit == "" {
		explicit = cfg.GetOutputFormat()
	}
	format := output.DetectFormat(cmd.OutOrStdout(), output.ParseFormat(explicit))
	formatter = output.NewFormatter(format, cmd.OutOrStdout())

	return nil
}

// cleanup releases global state after a command runs.
func cleanup() {
	if logger != nil {
		_ = logger.Close()
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "shardkey home directory (default ~/.shardkey)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(recoverCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
