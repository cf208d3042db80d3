package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is called with the collection key after an external write
// to its blob file has settled.
type ChangeCallback func(key string)

// Watch starts an fsnotify watcher on the file store's data directory and
// reports externally modified collection blobs until ctx is cancelled.
// Events are debounced per key so that a burst of writes (editor save,
// sync tool) yields a single callback.
//
// The caller is expected to ignore callbacks for content it just wrote
// itself; reloading an unchanged blob is harmless.
func Watch(ctx context.Context, fs *File, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(fs.Root()); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", fs.Root()))

	const settle = 200 * time.Millisecond
	pending := make(map[string]struct{})
	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	schedule := func(key string) {
		pending[key] = struct{}{}
		if settleTimer == nil {
			settleTimer = time.NewTimer(settle)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(settle)
		}
	}

	known := make(map[string]struct{}, len(Keys))
	for _, k := range Keys {
		known[k] = struct{}{}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-settleCh:
			for key := range pending {
				logger.Info("watcher: collection changed", slog.String("key", key))
				if cb != nil {
					cb(key)
				}
				delete(pending, key)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, ".json") {
				continue
			}
			key := strings.TrimSuffix(name, ".json")
			if _, ok := known[key]; !ok {
				continue
			}
			schedule(key)

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", werr.Error()))
		}
	}
}
