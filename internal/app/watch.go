package app

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rewind-os/rewind/internal/watcher"
)

var (
	watchFlagDaemon      bool
	watchFlagDaemonChild bool
	watchFlagStop        bool
	watchFlagStatus      bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Auto-snapshot on configuration changes",
	Long: `Watch the declarative configuration tree (watch.paths in the config
file, default /etc/nixos) and record an automatic snapshot on the
current branch whenever it changes. Edits made outside rewind then
still land on the timeline.`,
	Example: `  rewind watch             # run in the foreground
  rewind watch --daemon    # run in the background
  rewind watch --status
  rewind watch --stop`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchFlagDaemon, "daemon", false, "run in the background")
	watchCmd.Flags().BoolVar(&watchFlagDaemonChild, "daemon-child", false, "internal: run as the daemon child process")
	watchCmd.Flags().MarkHidden("daemon-child")
	watchCmd.Flags().BoolVar(&watchFlagStop, "stop", false, "stop the background watcher")
	watchCmd.Flags().BoolVar(&watchFlagStatus, "status", false, "report whether the background watcher is running")

	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	pidFile := filepath.Join(cfg.Dir, "watch.pid")
	logFile := filepath.Join(cfg.Dir, "watch.log")

	switch {
	case watchFlagStop:
		if err := watcher.StopDaemon(pidFile); err != nil {
			return err
		}
		fmt.Println("Watcher stopped.")
		return nil

	case watchFlagStatus:
		running, err := watcher.IsDaemonRunning(pidFile)
		if err != nil {
			return err
		}
		if running {
			fmt.Println("Watcher is running.")
		} else {
			fmt.Println("Watcher is not running.")
		}
		return nil

	case watchFlagDaemon:
		if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
		if err := watcher.StartDaemon(pidFile, logFile); err != nil {
			return err
		}
		fmt.Printf("Watcher started in the background (log: %s)\n", logFile)
		return nil
	}

	eng, cleanup, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	w, err := watcher.New(eng, cfg.Watch.Paths, cfg.Watch.Debounce)
	if err != nil {
		return err
	}

	if watchFlagDaemonChild {
		// PID file was written by the parent in StartDaemon.
		return w.RunDaemon(pidFile)
	}

	// Foreground mode: watch until interrupted.
	if err := w.Start(); err != nil {
		return err
	}
	fmt.Printf("Watching %v for configuration changes. Ctrl-C to stop.\n", cfg.Watch.Paths)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	<-sigCh

	return w.Stop()
}
