package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce groups the burst of events an editor emits on save.
const watchDebounce = 100 * time.Millisecond

// Watch calls fn once, then again after every change to path, until ctx is
// done. Errors from fn are logged and do not stop the watch.
//
// The parent directory is watched rather than the file, so editors that
// save by renaming a temp file over path are still seen.
func Watch(ctx context.Context, path string, logger *slog.Logger, fn func() error) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	run := func() {
		if err := fn(); err != nil {
			logger.Error("Render failed", "path", path, "err", err)
		}
	}
	run()

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("Change detected", "event", event.String())
			fire = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", "err", err)
		case <-fire:
			fire = nil
			run()
		}
	}
}
