package watcher

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher re-triggers the analysis when the config file changes. It
// watches the parent directory because editors replace files on save, which
// drops a watch placed on the file itself.
type ConfigWatcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	onChange  func()

	timerMu sync.Mutex
	timer   *time.Timer
}

func NewConfigWatcher(path string, debounce time.Duration, onChange func()) (*ConfigWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &ConfigWatcher{
		fsWatcher: fsw,
		path:      abs,
		debounce:  debounce,
		onChange:  onChange,
	}

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	go w.run()
	return w, nil
}

func (w *ConfigWatcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.matches(event) {
				continue
			}
			slog.Debug("config file changed", "path", event.Name, "op", event.Op.String())
			w.scheduleCallback()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

func (w *ConfigWatcher) matches(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return abs == w.path
}

func (w *ConfigWatcher) scheduleCallback() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}

func (w *ConfigWatcher) Close() error {
	w.timerMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timerMu.Unlock()
	return w.fsWatcher.Close()
}
