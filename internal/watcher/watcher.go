// Package watcher observes the declarative configuration tree and
// records automatic snapshots when it changes, so edits made outside
// rewind still land on the timeline. It can run in the foreground or
// as a pid-file daemon.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rewind-os/rewind/internal/engine"
)

// DefaultDebounce coalesces bursts of filesystem events (editors
// write several times per save) into a single snapshot.
const DefaultDebounce = 500 * time.Millisecond

// Watcher records an automatic snapshot on the current branch whenever
// a watched path changes.
type Watcher struct {
	eng      *engine.Engine
	paths    []string
	debounce time.Duration

	fsw    *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending map[string]bool
}

// New creates a Watcher over the given paths. Directories are watched
// recursively at Start.
func New(eng *engine.Engine, paths []string, debounce time.Duration) (*Watcher, error) {
	if eng == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		eng:      eng,
		paths:    paths,
		debounce: debounce,
		stopCh:   make(chan struct{}),
		pending:  make(map[string]bool),
	}, nil
}

// Start begins watching and returns immediately. Events are processed
// on a background goroutine until Stop.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}

	for _, root := range w.paths {
		if err := addRecursive(fsw, root); err != nil {
			fsw.Close()
			return err
		}
	}

	w.fsw = fsw
	w.wg.Add(1)
	go w.run()
	return nil
}

// addRecursive registers root and every directory beneath it. Missing
// roots are skipped with a warning so one absent path does not disable
// the whole watcher.
func addRecursive(fsw *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "watcher: skipping missing path %s\n", root)
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		if err := fsw.Add(root); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
		return nil
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := fsw.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
		}
		return nil
	})
}

// run is the event loop: collect events, debounce, snapshot.
func (w *Watcher) run() {
	defer w.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New directories need to join the watch set.
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addRecursive(w.fsw, ev.Name)
				}
			}
			w.mu.Lock()
			w.pending[ev.Name] = true
			w.mu.Unlock()
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			w.flush()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watcher: filesystem error: %v\n", err)

		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			w.flush()
			return
		}
	}
}

// flush records one auto snapshot covering all pending changes.
func (w *Watcher) flush() {
	w.mu.Lock()
	n := len(w.pending)
	var sample string
	for path := range w.pending {
		if sample == "" || path < sample {
			sample = path
		}
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	if n == 0 {
		return
	}
	msg := fmt.Sprintf("config change: %s", sample)
	if n > 1 {
		msg = fmt.Sprintf("config change: %s (+%d more)", sample, n-1)
	}
	if _, err := w.eng.Snapshot(msg, true); err != nil {
		fmt.Fprintf(os.Stderr, "watcher: auto snapshot failed: %v\n", err)
	}
}

// Stop halts the watcher and flushes any pending changes.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	w.wg.Wait()
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}
