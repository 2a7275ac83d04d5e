// Package app wires the rewind command-line surface: one cobra command
// per timeline verb, configuration resolved once at startup, and the
// engine constructed per invocation.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rewind-os/rewind/internal/audit"
	"github.com/rewind-os/rewind/internal/config"
	"github.com/rewind-os/rewind/internal/engine"
	"github.com/rewind-os/rewind/internal/store"
	"github.com/rewind-os/rewind/internal/trigger"
)

var (
	cfgFile string

	// RootCmd is the root command for rewind.
	RootCmd = &cobra.Command{
		Use:   "rewind",
		Short: "Timeline-based system state management",
		Long: `rewind records snapshots of your declarative system configuration,
organizes them into branches, and restores any prior state.

It is a metadata timeline: snapshots describe state transitions, they do
not copy the filesystem. After a restore or branch switch the configured
reload hook is invoked to bring the environment in line.

Quick Start:
  1. rewind snapshot "initial state"
  2. rewind branch experiment --switch
  3. ...make changes, snapshot as you go...
  4. rewind switch main

Examples:
  # Record a snapshot on the current branch
  rewind snapshot "installed vscode"

  # See where you are
  rewind list

  # Go back
  rewind restore snap_1724700000_1a2b3c4d`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			fmt.Println("rewind: timeline-based system state management")
			fmt.Println()
			if _, err := os.Stat(store.New(cfg.Dir).Path()); os.IsNotExist(err) {
				fmt.Println("No timeline yet. Run 'rewind snapshot \"initial state\"' to start one.")
			} else {
				fmt.Println("Tip: Run 'rewind list' to see your branches.")
				fmt.Println("     Run 'rewind --help' for all commands.")
			}
			return nil
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/rewind/config.toml)")
	RootCmd.PersistentFlags().String("dir", "", "state directory (default: ~/.rewind, env: REWIND_DIR)")
	RootCmd.PersistentFlags().Bool("force", false, "skip confirmation prompts (env: REWIND_FORCE)")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose diagnostics on stderr (env: REWIND_VERBOSE)")

	viper.BindPFlag("dir", RootCmd.PersistentFlags().Lookup("dir"))
	viper.BindPFlag("force", RootCmd.PersistentFlags().Lookup("force"))
	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))

	RootCmd.SuggestionsMinimumDistance = 2
}

// initConfig reads the config file and environment once, before any
// command runs. Everything downstream consumes the explicit
// config.Config struct, never viper directly.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if dir, err := config.FileDir(); err == nil {
		viper.AddConfigPath(dir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	config.SetDefaults(viper.GetViper())
	config.Bind(viper.GetViper())

	// A missing config file is fine; every key has a default.
	_ = viper.ReadInConfig()
}

// loadConfig materializes the resolved configuration for one command
// invocation.
func loadConfig() config.Config {
	return config.FromViper(viper.GetViper())
}

// newEngine builds the engine for one invocation: store at cfg.Dir,
// audit trail beside it, reload hook if configured. The returned
// cleanup closes the audit database.
func newEngine(cfg config.Config) (*engine.Engine, func(), error) {
	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	var sink trigger.Sink
	if cfg.Reload.Command != "" {
		sink = &trigger.CommandSink{
			Command: cfg.Reload.Command,
			Mode:    cfg.Reload.Mode,
			Timeout: cfg.Reload.Timeout,
		}
	}

	// The audit trail is best-effort: a broken database must not stop
	// timeline operations.
	auditLog, err := audit.Open(auditPath(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit trail unavailable: %v\n", err)
		auditLog = nil
	}

	cleanup := func() {
		if auditLog != nil {
			auditLog.Close()
		}
	}
	return engine.New(store.New(cfg.Dir), auditLog, sink), cleanup, nil
}

// auditPath returns the audit database location inside the state dir.
func auditPath(cfg config.Config) string {
	return filepath.Join(cfg.Dir, "audit.db")
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}
