package nav

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces filesystem event bursts into one refresh.
const debounceWindow = 200 * time.Millisecond

// Follow watches dir and re-navigates to it whenever its contents change,
// debounced, until ctx is done. An initial navigation is issued immediately.
func Follow(ctx context.Context, n *Navigator, dir string, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("nav: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("nav: watch %s: %w", dir, err)
	}

	n.Navigate(dir)

	debounce := time.NewTimer(debounceWindow)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			logger.Debug("fs event", "op", event.Op.String(), "name", event.Name)
			debounce.Reset(debounceWindow)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		case <-debounce.C:
			n.Navigate(dir)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
