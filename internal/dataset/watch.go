package dataset

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event kinds passed to EventCallback.
const (
	EventReloaded = "reloaded"
	EventFailed   = "failed"
)

// EventCallback is called after each watcher-driven reload attempt. detail
// is the new checksum on success or the error text on failure.
type EventCallback func(kind, detail string)

const debounce = 200 * time.Millisecond

// Watch reloads src into store whenever the file changes, until ctx is
// cancelled. The parent directory is watched so that editors which save by
// rename are picked up. Bursts of events are debounced. Invalid files are
// logged and reported through cb; the previous snapshot stays live.
func Watch(ctx context.Context, store *Store, src File, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(src.Path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			ds, changed, err := store.Reload(ctx, src)
			if err != nil {
				logger.Warn("watcher: reload failed", slog.String("path", abs), slog.String("error", err.Error()))
				if cb != nil {
					cb(EventFailed, err.Error())
				}
				continue
			}
			if !changed {
				logger.Debug("watcher: content unchanged", slog.String("path", abs))
				continue
			}
			logger.Info("watcher: dataset reloaded",
				slog.String("path", abs),
				slog.Int("herbs", ds.Len()),
				slog.Int("relations", len(ds.Relations)),
				slog.String("checksum", ds.Checksum))
			if cb != nil {
				cb(EventReloaded, ds.Checksum)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
