package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/verdant/canopy/internal/analysis"
	"github.com/verdant/canopy/internal/logging"
)

// ReloadCallback is called when the tables file is successfully reloaded
// and the merged tables validate. If the callback returns an error, it is
// logged but the watcher continues watching.
type ReloadCallback func(tables analysis.Tables) error

// TablesWatcherConfig holds configuration for the TablesWatcher.
type TablesWatcherConfig struct {
	// FilePath is the path to the tables YAML file to watch
	FilePath string

	// DebounceMillis is the debounce period in milliseconds.
	// Multiple file change events within this period are coalesced into a
	// single reload. Default: 500ms
	DebounceMillis int
}

// TablesWatcher watches the analysis tables file for changes and triggers
// reload callbacks with debouncing to prevent reload storms from editor
// save sequences.
//
// Invalid table files during reload are logged but do not crash the
// watcher. It continues watching with the previous valid tables.
type TablesWatcher struct {
	config   TablesWatcherConfig
	callback ReloadCallback
	logger   *logging.Logger
	cancel   context.CancelFunc
	stopped  chan struct{}
	ready    chan struct{} // signals when fsnotify watcher is fully initialized
	mu       sync.Mutex

	// debounceTimer coalesces multiple file change events
	debounceTimer *time.Timer
}

// NewTablesWatcher creates a new watcher for the given tables file.
// The callback will be invoked whenever the file changes and the merged
// tables are valid.
func NewTablesWatcher(config TablesWatcherConfig, callback ReloadCallback) (*TablesWatcher, error) {
	if config.FilePath == "" {
		return nil, fmt.Errorf("FilePath cannot be empty")
	}

	if callback == nil {
		return nil, fmt.Errorf("callback cannot be nil")
	}

	if config.DebounceMillis == 0 {
		config.DebounceMillis = 500
	}

	return &TablesWatcher{
		config:   config,
		callback: callback,
		logger:   logging.GetLogger("config.tables-watcher"),
		stopped:  make(chan struct{}),
		ready:    make(chan struct{}),
	}, nil
}

// Start loads the tables once, calls the callback, and begins watching the
// file for changes. Returns an error if the initial load or callback fails.
func (w *TablesWatcher) Start(ctx context.Context) error {
	initial, err := ResolveTables(w.config.FilePath)
	if err != nil {
		return fmt.Errorf("failed to load initial tables: %w", err)
	}

	if err := w.callback(initial); err != nil {
		return fmt.Errorf("initial callback failed: %w", err)
	}

	w.logger.Info("loaded initial tables from %s", w.config.FilePath)

	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	go w.watchLoop(watchCtx)

	// Wait for the watcher to be fully initialized before returning so
	// file changes are not missed during startup.
	select {
	case <-w.ready:
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Second):
		return fmt.Errorf("timeout waiting for file watcher to initialize")
	}

	return nil
}

// signalReady safely closes the ready channel exactly once
func (w *TablesWatcher) signalReady() {
	w.mu.Lock()
	defer w.mu.Unlock()
	select {
	case <-w.ready:
	default:
		close(w.ready)
	}
}

// watchLoop is the main file watching loop
func (w *TablesWatcher) watchLoop(ctx context.Context) {
	defer close(w.stopped)
	defer w.signalReady()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.ErrorWithErr("failed to create file watcher", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(w.config.FilePath); err != nil {
		w.logger.ErrorWithErr(fmt.Sprintf("failed to watch file %s", w.config.FilePath), err)
		return
	}

	w.logger.Info("watching %s for changes (debounce: %dms)",
		w.config.FilePath, w.config.DebounceMillis)

	w.signalReady()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("context cancelled, stopping")
			return

		case event, ok := <-watcher.Events:
			if !ok {
				w.logger.Debug("watcher events channel closed")
				return
			}

			// Write, Create, Rename, and Remove are all relevant. Remove
			// covers atomic writes where the old file is unlinked before
			// the new file is renamed into place.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}

			// For rename/remove the inode changed, so the watch must be
			// re-added after the replacement file appears.
			if event.Op&(fsnotify.Rename|fsnotify.Remove) != 0 {
				time.Sleep(50 * time.Millisecond)
				if err := watcher.Add(w.config.FilePath); err != nil {
					w.logger.Warn("failed to re-add watch after %s: %v", event.Op, err)
				}
			}
			w.handleFileChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				w.logger.Debug("watcher errors channel closed")
				return
			}
			w.logger.ErrorWithErr("watcher error", err)
		}
	}
}

// handleFileChange implements debouncing by resetting a timer on each event.
func (w *TablesWatcher) handleFileChange() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(
		time.Duration(w.config.DebounceMillis)*time.Millisecond,
		w.reloadTables,
	)
}

// reloadTables reloads the tables file and calls the callback if successful.
// Invalid files are logged but don't crash the watcher.
func (w *TablesWatcher) reloadTables() {
	w.logger.Info("reloading tables from %s", w.config.FilePath)

	tables, err := ResolveTables(w.config.FilePath)
	if err != nil {
		w.logger.ErrorWithErr("failed to load tables (keeping previous tables)", err)
		return
	}

	if err := w.callback(tables); err != nil {
		w.logger.ErrorWithErr("callback error (continuing to watch)", err)
		return
	}

	w.logger.Info("tables reloaded successfully")
}

// Stop gracefully stops the file watcher.
// Waits for the watch loop to exit with a timeout of 5 seconds.
func (w *TablesWatcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}

	select {
	case <-w.stopped:
		w.logger.Debug("stopped gracefully")
		return nil
	case <-time.After(5 * time.Second):
		return fmt.Errorf("timeout waiting for watcher to stop")
	}
}
