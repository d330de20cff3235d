package config

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed indicates the watcher has been closed.
var ErrWatcherClosed = errors.New("config watcher closed")

// ReloadFunc receives the freshly loaded configuration, or an error when the
// changed file fails to load. On error the previous configuration stays in
// effect.
type ReloadFunc func(cfg *Config, err error)

// Watcher reloads the configuration when the file changes on disk. Editors
// typically replace config files via rename, so the parent directory is
// watched and events are filtered to the file itself. Rapid successive
// events within the settle window collapse into one reload.
type Watcher struct {
	path   string
	fsw    *fsnotify.Watcher
	reload ReloadFunc
	settle time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewWatcher starts watching path and calls reload after each change.
func NewWatcher(path string, reload ReloadFunc) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:   absPath,
		fsw:    fsw,
		reload: reload,
		settle: 100 * time.Millisecond,
		done:   make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// schedule arms the settle timer, restarting it on every new event.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.settle, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	cfg, err := Load(w.path)
	w.reload(cfg, err)
}
