package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the burst of events editors emit on save.
const reloadDebounce = 200 * time.Millisecond

// ReloadCallback is called after the watcher applied a changed categories file.
type ReloadCallback func()

// WatchCategories watches the categories file at path and re-applies it
// whenever it changes, until ctx is cancelled. The parent directory is
// watched rather than the file so that atomic saves (write to temp, rename
// over) are seen. cb, if non-nil, runs after each applied reload.
func WatchCategories(ctx context.Context, db *DB, path string, logger *slog.Logger, cb ReloadCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("path", target))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(reloadDebounce)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(reloadDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			applied, err := SyncCategoriesFile(ctx, db, target, logger)
			if err != nil {
				logger.Warn("watcher: reload failed", slog.String("path", target), slog.String("error", err.Error()))
				continue
			}
			if applied && cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != target {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				scheduleReload()
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// The file may come back under the same name; stored
				// categories stay as they are until it does.
				logger.Warn("watcher: categories file removed, keeping current categories", slog.String("path", target))
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
