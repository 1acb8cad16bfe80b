package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// FileWatcher reports changes to a single file. It watches the parent
// directory so that files replaced by rename (atomic saves) keep being seen.
type FileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	changes chan struct{}
	logger  *log.Logger
}

// NewFileWatcher starts watching path. The parent directory is created if it
// does not exist yet.
func NewFileWatcher(path string, logger *log.Logger) (*FileWatcher, error) {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &FileWatcher{
		path:    path,
		watcher: w,
		changes: make(chan struct{}, 1),
		logger:  logger,
	}, nil
}

// Changes delivers at most one pending notification; bursts of events
// collapse into one. It is closed when Run returns.
func (w *FileWatcher) Changes() <-chan struct{} {
	return w.changes
}

// Run forwards events until ctx is done or the watcher fails.
func (w *FileWatcher) Run(ctx context.Context) error {
	defer close(w.changes)
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op == fsnotify.Chmod {
				continue
			}
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.logger != nil {
				w.logger.Warn("file watcher error", "path", w.path, "err", err)
			}
		}
	}
}

// Close stops the watcher without running it.
func (w *FileWatcher) Close() error {
	return w.watcher.Close()
}
