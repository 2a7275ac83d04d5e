// Package config loads the rewind configuration once at process start
// and materializes it into an explicit Config struct. Nothing outside
// this package reads viper; the struct is threaded through
// constructors instead of living in process-global state.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the fully resolved process configuration.
type Config struct {
	// Dir is the state directory holding the timeline document, the
	// audit database, and the lock file. Overridable via REWIND_DIR.
	Dir string

	// Force skips interactive confirmation prompts.
	Force bool

	// Verbose enables diagnostic output on stderr.
	Verbose bool

	Reload    ReloadConfig
	Watch     WatchConfig
	Retention RetentionConfig
}

// ReloadConfig describes the external reload hook fired after restore
// and switch operations.
type ReloadConfig struct {
	// Command is the hook executable; empty disables hooks.
	Command string
	// Mode is passed to the hook as its single argument.
	Mode string
	// Timeout bounds one hook invocation.
	Timeout time.Duration
}

// WatchConfig describes the declarative-config watcher.
type WatchConfig struct {
	// Paths are the directories watched for configuration changes.
	Paths []string
	// Debounce coalesces bursts of filesystem events into one
	// auto-snapshot.
	Debounce time.Duration
}

// RetentionConfig holds the default prune policy.
type RetentionConfig struct {
	MaxSnapshots int
	MaxAgeDays   int
}

// FileDir returns the directory searched for config.toml, respecting
// XDG_CONFIG_HOME. Defaults to ~/.config/rewind.
func FileDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "rewind"), nil
}

// defaultStateDir returns ~/.rewind, falling back to a relative
// directory when the home directory cannot be resolved.
func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rewind"
	}
	return filepath.Join(home, ".rewind")
}

// SetDefaults registers every configuration key with its default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dir", defaultStateDir())
	v.SetDefault("force", false)
	v.SetDefault("verbose", false)
	v.SetDefault("reload.command", "")
	v.SetDefault("reload.mode", "smart")
	v.SetDefault("reload.timeout_seconds", 30)
	v.SetDefault("watch.paths", []string{"/etc/nixos"})
	v.SetDefault("watch.debounce_ms", 500)
	v.SetDefault("retention.max_snapshots", 0)
	v.SetDefault("retention.max_age_days", 0)
}

// Bind wires REWIND_* environment overrides (REWIND_DIR,
// REWIND_FORCE, REWIND_RELOAD_COMMAND, ...) into v.
func Bind(v *viper.Viper) {
	v.SetEnvPrefix("REWIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// FromViper materializes the resolved configuration. Call after
// SetDefaults, Bind, and ReadInConfig.
func FromViper(v *viper.Viper) Config {
	return Config{
		Dir:     v.GetString("dir"),
		Force:   v.GetBool("force"),
		Verbose: v.GetBool("verbose"),
		Reload: ReloadConfig{
			Command: v.GetString("reload.command"),
			Mode:    v.GetString("reload.mode"),
			Timeout: time.Duration(v.GetInt("reload.timeout_seconds")) * time.Second,
		},
		Watch: WatchConfig{
			Paths:    v.GetStringSlice("watch.paths"),
			Debounce: time.Duration(v.GetInt("watch.debounce_ms")) * time.Millisecond,
		},
		Retention: RetentionConfig{
			MaxSnapshots: v.GetInt("retention.max_snapshots"),
			MaxAgeDays:   v.GetInt("retention.max_age_days"),
		},
	}
}
