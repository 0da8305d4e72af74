// Package watcher regenerates output when the watched source file changes.
package watcher

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a single file and invokes a callback after changes
// settle. Editors often produce bursts of events per save (write, rename,
// chmod), so callbacks are debounced.
type FileWatcher struct {
	watcher       *fsnotify.Watcher
	target        string // Absolute path of the watched file
	debounceTime  time.Duration
	callback      func()
	cancel        context.CancelFunc
	debounceTimer *time.Timer
	timerMu       sync.Mutex
	stopOnce      sync.Once
	doneCh        chan struct{}
}

// New creates a watcher for the given file. The file's directory is what
// actually gets registered, since save-by-rename replaces the inode.
func New(path string) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &FileWatcher{
		watcher:      watcher,
		target:       abs,
		debounceTime: 500 * time.Millisecond,
		doneCh:       make(chan struct{}),
	}, nil
}

// Start begins watching. The callback fires once per settled burst of
// changes to the target file.
func (fw *FileWatcher) Start(ctx context.Context, callback func()) error {
	if callback == nil {
		return nil
	}

	fw.callback = callback
	ctx, fw.cancel = context.WithCancel(ctx)

	go fw.watch(ctx)
	return nil
}

// Stop stops the watcher. Safe to call more than once.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		if fw.cancel != nil {
			fw.cancel()
			<-fw.doneCh
		} else {
			close(fw.doneCh)
		}
		err = fw.watcher.Close()
	})
	return err
}

// watch is the main event loop.
func (fw *FileWatcher) watch(ctx context.Context) {
	defer close(fw.doneCh)

	fireCh := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			fw.stopDebounceTimer()
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.shouldProcessEvent(event) {
				continue
			}
			fw.resetDebounceTimer(fireCh)

		case <-fireCh:
			fw.callback()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// shouldProcessEvent filters directory events down to mutations of the
// target file.
func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return abs == fw.target
}

// resetDebounceTimer resets the debounce timer, properly stopping the old
// one.
func (fw *FileWatcher) resetDebounceTimer(fireCh chan struct{}) {
	fw.timerMu.Lock()
	defer fw.timerMu.Unlock()

	if fw.debounceTimer != nil {
		if !fw.debounceTimer.Stop() {
			select {
			case <-fw.debounceTimer.C:
			default:
			}
		}
	}

	fw.debounceTimer = time.AfterFunc(fw.debounceTime, func() {
		select {
		case fireCh <- struct{}{}:
		default:
		}
	})
}

// stopDebounceTimer stops the debounce timer if it exists.
func (fw *FileWatcher) stopDebounceTimer() {
	fw.timerMu.Lock()
	defer fw.timerMu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
		fw.debounceTimer = nil
	}
}
