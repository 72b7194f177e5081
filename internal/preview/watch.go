package preview

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "github.com/sys27/garden/internal/foundation/errors"
	"github.com/sys27/garden/internal/logfields"
)

// DebounceDelay is how long the watcher waits for a burst of changes to settle.
const DebounceDelay = 300 * time.Millisecond

// newDebouncer returns a channel receiving at most one pending rebuild
// request and a trigger that fires it after delay without further calls.
func newDebouncer(delay time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

// newWatcher watches root and every directory below it except skip.
func newWatcher(root string, skip func(string) bool, logger *slog.Logger) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "create file watcher").Build()
	}
	addDirsRecursive(watcher, root, skip, logger)
	return watcher, nil
}

func addDirsRecursive(w *fsnotify.Watcher, root string, skip func(string) bool, logger *slog.Logger) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || skip(path)) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent reports whether a change to path never affects the site:
// hidden files, editor swap and backup files, OS metadata.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db" || base == "4913"
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
