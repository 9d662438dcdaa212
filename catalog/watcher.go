package catalog

import (
	"fmt"
	"path/filepath"
	"time"

	"ShelfFM/logger"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalog when its source file changes. Events are
// debounced because editors and sync tools fire several writes per save.
// Blocks until stop is closed. No-op when the provider reads from a URL.
func (p *Provider) Watch(stop <-chan struct{}) error {
	if p.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create catalog watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: many tools replace the file on save, which
	// drops a watch registered on the file itself.
	dir := filepath.Dir(p.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch catalog directory %s: %w", dir, err)
	}

	var debounce *time.Timer
	var debounceC <-chan time.Time
	target := filepath.Clean(p.path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(500 * time.Millisecond)
			} else {
				debounce.Reset(500 * time.Millisecond)
			}
			debounceC = debounce.C

		case <-debounceC:
			debounceC = nil
			if err := p.Load(); err != nil {
				// Keep serving the previous snapshot.
				logger.Warn("Catalog reload failed", logger.ErrorField(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Catalog watcher error", logger.ErrorField(err))

		case <-stop:
			return nil
		}
	}
}
