package server

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeFunc is invoked after the debounce window with the last changed path
// and operation.
type ChangeFunc func(ctx context.Context, path, op string)

// MapWatcher monitors the import map candidate files (and the HTML entry)
// and notifies on changes. Watching the parent directories is more reliable
// than watching the files directly, since editors replace files on save.
type MapWatcher struct {
	paths    map[string]string // absolute path -> original relative path
	watcher  *fsnotify.Watcher
	onChange ChangeFunc
	debounce time.Duration

	mu       sync.Mutex
	stopChan chan struct{}
	stopped  bool
}

// NewMapWatcher creates a watcher for the given paths.
func NewMapWatcher(paths []string, debounce time.Duration, onChange ChangeFunc) (*MapWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	abs := make(map[string]string, len(paths))
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to resolve watch path %s: %w", p, err)
		}
		abs[a] = p
	}

	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}

	return &MapWatcher{
		paths:    abs,
		watcher:  watcher,
		onChange: onChange,
		debounce: debounce,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins monitoring. Directories that do not exist yet are skipped; a
// watcher with zero watchable directories is an error.
func (mw *MapWatcher) Start(ctx context.Context) error {
	dirs := make(map[string]struct{})
	for p := range mw.paths {
		dirs[filepath.Dir(p)] = struct{}{}
	}

	watched := 0
	for dir := range dirs {
		if err := mw.watcher.Add(dir); err == nil {
			watched++
		}
	}
	if watched == 0 {
		return fmt.Errorf("no watchable directories among %d candidates", len(dirs))
	}

	go mw.watchLoop(ctx)
	return nil
}

// Stop stops the watcher.
func (mw *MapWatcher) Stop() {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	if mw.stopped {
		return
	}
	mw.stopped = true
	close(mw.stopChan)
	_ = mw.watcher.Close()
}

func (mw *MapWatcher) watchLoop(ctx context.Context) {
	var (
		timer    *time.Timer
		timerC   <-chan time.Time
		lastPath string
		lastOp   string
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-mw.stopChan:
			return
		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}
			rel, watched := mw.match(event.Name)
			if !watched {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			lastPath = rel
			lastOp = event.Op.String()
			if timer == nil {
				timer = time.NewTimer(mw.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(mw.debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			if mw.onChange != nil {
				mw.onChange(ctx, lastPath, lastOp)
			}
		case _, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// match reports whether name is one of the watched files.
func (mw *MapWatcher) match(name string) (string, bool) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", false
	}
	rel, ok := mw.paths[abs]
	return rel, ok
}
