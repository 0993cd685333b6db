package corpus

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 500 * time.Millisecond

// Watcher monitors a corpus directory and swaps a freshly built corpus into
// the Store when example scripts change. A failed reload keeps the previous
// snapshot active.
type Watcher struct {
	dir     string
	store   *Store
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// NewWatcher creates a Watcher for dir backed by store.
func NewWatcher(dir string, store *Store) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		dir:     dir,
		store:   store,
		watcher: fw,
		logger:  slog.Default(),
	}, nil
}

// Run processes file events until ctx is cancelled. Bursts of events (editor
// saves, bulk copies) are coalesced into one reload per debounce window.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isScript(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("corpus watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	c, err := Load(w.dir)
	if err != nil {
		w.logger.Warn("corpus reload failed, keeping previous snapshot", "dir", w.dir, "error", err)
		return
	}
	w.store.Swap(c)
	w.logger.Info("corpus reloaded", "dir", w.dir, "documents", c.Len())
}
