// =============================================================================
// Quiz Grade Reconciler - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI and the helpers every
// subcommand shares (config loading, store access).
//
// COBRA CLI STRUCTURE:
//   rootCmd (reconciler)
//   ├── configCmd  (reconciler config init|show)
//   ├── rosterCmd  (reconciler roster import|show)
//   ├── gradeCmd   (reconciler grade <file.csv>)
//   ├── runsCmd    (reconciler runs [show <id>])
//   └── versionCmd (reconciler version)
//
// CONFIGURATION:
//   --config defaults to ~/.reconciler.yaml. A missing file is not an error;
//   defaults are used until `reconciler config init` writes one.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/config"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/store"
	"github.com/ginjaninja78/quiz-grade-reconciler/pkg/utils"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// logLevel overrides log_level from the config file when set.
var logLevel string

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "reconciler",
	Short: "Quiz Grade Reconciler - join quiz CSV exports to a class roster",
	Long: `Quiz Grade Reconciler reads the paired-row CSV export of a quiz, scores
every answer as correct, partial, or not attempted, and joins each record to
the class roster by email (falling back to name) to recover its section.

Example Usage:
  reconciler config init --course CS364
  reconciler roster import roster.xlsx
  reconciler grade quiz1.csv
  reconciler runs`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.reconciler.yaml)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "loglevel", "l", "", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig resolves the config path and sets the initial log level.
func initConfig() {
	if cfgFile == "" {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfgFile = filepath.Join(home, ".reconciler.yaml")
	}

	if logLevel != "" {
		if err := utils.SetLogLevel(logLevel); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig reads the config file, or defaults when it does not exist.
// log_level from the file applies unless --loglevel was given.
func loadConfig() (*config.MainConfig, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel == "" {
		if err := utils.SetLogLevel(cfg.LogLevel); err != nil {
			return nil, fmt.Errorf("invalid log_level in %s: %w", cfgFile, err)
		}
	}
	utils.Log.WithField("config", cfgFile).Debug("configuration loaded")
	return cfg, nil
}

// openStore opens the SQLite store named by the config.
func openStore(cfg *config.MainConfig) (*store.DB, error) {
	path, err := homedir.Expand(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve store path: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	return db, nil
}

// courseOverride applies a --course flag value on top of the config.
func courseOverride(cfg *config.MainConfig, course string) {
	if course != "" {
		cfg.CourseNumber = course
	}
}
