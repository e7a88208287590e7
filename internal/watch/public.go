package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// PublicOptions configures WatchPublic.
type PublicOptions struct {
	// Dir is the public folder, watched recursively.
	Dir string
	// Debounce is the quiet period before Rebuild runs.
	Debounce time.Duration
	// Rebuild asks the bundler for a new compilation.
	Rebuild func()
	Logger  *slog.Logger
}

// WatchPublic triggers a rebuild whenever files in the public folder change,
// so the orchestrator copies them on the resulting events. It blocks until
// ctx is cancelled. A missing public folder is not watched.
func WatchPublic(ctx context.Context, opts PublicOptions) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if info, err := os.Stat(opts.Dir); err != nil || !info.IsDir() {
		opts.Logger.Debug("public folder not watched", slog.String("dir", opts.Dir))
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, opts.Dir); err != nil {
		return fmt.Errorf("watching public folder: %w", err)
	}

	debouncer := NewDebouncer(opts.Debounce, func(paths []string) {
		opts.Logger.Debug("public folder changed", slog.Any("paths", paths))
		opts.Rebuild()
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event) {
				continue
			}

			// New directories are watched too.
			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = addRecursive(watcher, event.Name)
				}
			}

			debouncer.Trigger(event.Name)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// addRecursive walks root and adds all directories to the watcher.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}

			return watcher.Add(path)
		}

		return nil
	})
}

// isRelevant filters out chmod-only events and editor temporary files.
func isRelevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Base(event.Name)

	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp") || strings.HasPrefix(name, "#") {
		return false
	}

	return true
}
