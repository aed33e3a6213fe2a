package bindgen

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-runs Run whenever a file under the root module's directory
// tree changes, debounced with per-path timers guarded by a mutex:
// cancel-and-reschedule on repeated rapid events.
type Watcher struct {
	cfg     Config
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	debounceMu     sync.Mutex
	debounceTimers map[string]*time.Timer
	debounceMs     int

	stopChan chan struct{}
	stopOnce sync.Once

	// OnResult is invoked (if non-nil) after each successful regeneration.
	OnResult func(*Result)
	// OnError is invoked (if non-nil) after a failed regeneration.
	OnError func(error)
}

// NewWatcher builds a Watcher for cfg, watching the root file's directory
// tree.
func NewWatcher(cfg Config) (*Watcher, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		cfg:            cfg,
		logger:         logger,
		watcher:        fsw,
		debounceTimers: make(map[string]*time.Timer),
		debounceMs:     200,
		stopChan:       make(chan struct{}),
	}, nil
}

// Start adds every directory under the root module's tree to the
// watcher and begins the event loop in a background goroutine. Start
// also performs one initial Run so the caller has output before the
// first file change.
func (w *Watcher) Start() error {
	root := filepath.Dir(w.cfg.RootPath)

	if err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if info.Name() == "node_modules" {
				return filepath.SkipDir
			}
			if addErr := w.watcher.Add(path); addErr != nil {
				w.logger.Warn("bindgen: watch: failed to watch directory", "path", path, "error", addErr)
			}
		}
		return nil
	}); err != nil {
		return err
	}

	w.runOnce()

	go w.eventLoop()
	w.logger.Info("bindgen: watch started", "root", root)
	return nil
}

// Stop ends the event loop. Idempotent.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.debounceMu.Lock()
		for _, timer := range w.debounceTimers {
			timer.Stop()
		}
		w.debounceTimers = make(map[string]*time.Timer)
		w.debounceMu.Unlock()
		_ = w.watcher.Close()
	})
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != ".ts" {
				continue
			}
			w.debounceRun(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("bindgen: watch error", "error", err)
		}
	}
}

// debounceRun schedules a regeneration after the debounce delay. A
// second event for the same path before the timer fires cancels and
// reschedules it, so a burst of writes triggers exactly one rebuild.
func (w *Watcher) debounceRun(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounceTimers[path]; ok {
		timer.Stop()
	}
	w.debounceTimers[path] = time.AfterFunc(time.Duration(w.debounceMs)*time.Millisecond, w.runOnce)
}

func (w *Watcher) runOnce() {
	result, err := Run(w.cfg)
	if err != nil {
		w.logger.Error("bindgen: watch: regeneration failed", "error", err)
		if w.OnError != nil {
			w.OnError(err)
		}
		return
	}
	w.logger.Info("bindgen: watch: regenerated", "json", result.JSONPath, "js", result.JSPath)
	if w.OnResult != nil {
		w.OnResult(result)
	}
}
