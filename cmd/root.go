// =============================================================================
// Invoice Consolidator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (consolidator)
//   ├── processCmd  (consolidator process)
//   ├── validateCmd (consolidator validate)
//   ├── summaryCmd  (consolidator summary)
//   └── versionCmd  (consolidator version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading config.yaml before any subcommand runs
//   3. Setting up the logrus logger
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/invoice-consolidator/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// appConfig and logger are set by PersistentPreRunE.
var (
	appConfig *config.MainConfig
	logger    *logrus.Logger
	logFile   io.Closer
)

// skipConfigAnnotation marks commands that run without loading config.yaml.
const skipConfigAnnotation = "skip-config"

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "consolidator",
	Short: "Invoice Consolidator - turn ERP sales exports into tax-invoice bulk-upload files",
	Long: `Invoice Consolidator reads line-item sales exports from the ERP and writes
the 59-column bulk-upload layout used by the tax authority's e-invoice portal.

Line items that share an invoice key (date, receiver, supplier) are merged
into one invoice row with up to four item slots, in the order
임대료, 관리비, 전기료, 주차료.

Example Usage:
  consolidator process                         # Process every export in the input directory
  consolidator process --file export.xlsx      # Process one file
  consolidator process --dry-run               # Consolidate without writing anything
  consolidator validate --file export.xlsx     # Check an export without writing output
  consolidator summary --file export.xlsx      # Print totals per receiver`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfigAnnotation] == "true" {
			return nil
		}

		// A missing default config.yaml means "use the defaults"; an explicit
		// --config path must exist.
		allowMissing := !cmd.Flags().Changed("config")
		cfg, err := config.LoadMainConfig(cfgFile, allowMissing)
		if err != nil {
			return err
		}
		appConfig = cfg

		l, closer, err := newLogger(cfg, verbose, os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		logFile = closer

		logger.WithField("config", cfgFile).Debug("configuration loaded")
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. Called once by main.main().
func Execute() {
	if err := execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// execute runs the command line and closes the log file afterwards,
// whether or not the command failed.
func execute(args []string) error {
	defer closeLogFile()

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// closeLogFile closes the log file opened by PersistentPreRunE, if any.
func closeLogFile() {
	if logFile == nil {
		return
	}
	if err := logFile.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
	}
	logFile = nil
}

// =============================================================================
// LOGGING
// =============================================================================

// newLogger builds the logrus logger described by the config. When a log
// file is configured, entries go to both stderr and the file; the returned
// closer is the file, or nil.
func newLogger(cfg *config.MainConfig, verbose bool, stderr io.Writer) (*logrus.Logger, io.Closer, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}
	if verbose {
		level = logrus.DebugLevel
	}
	l.SetLevel(level)

	if cfg.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.LogFile == "" {
		l.SetOutput(stderr)
		return l, nil, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l.SetOutput(io.MultiWriter(stderr, f))
	return l, f, nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
