package corpus

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits after the last replay event
// before calling onChange. Slippi writes a replay for the whole duration of
// a game, so a burst of writes collapses into one rescan.
const DefaultDebounce = 2 * time.Second

// Watch calls onChange whenever replay files with extension ext are created
// or written in dir, at most once per quiet period of debounce. It returns
// ctx.Err() on cancellation, or the first error from onChange.
func Watch(ctx context.Context, dir, ext string, debounce time.Duration, onChange func() error) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch replay dir: %w", err)
	}

	suffix := "." + strings.TrimPrefix(ext, ".")
	if suffix == "." {
		suffix = "." + DefaultExtension
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if filepath.Ext(event.Name) != suffix {
				continue
			}
			timer.Reset(debounce)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Printf("[WARN] File watcher error: %v\n", werr)
		case <-timer.C:
			if err := onChange(); err != nil {
				return err
			}
		}
	}
}
