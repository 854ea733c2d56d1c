package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const reloadDelay = 100 * time.Millisecond

// Watcher reloads the config file when it changes and passes the result
// to a callback.
type Watcher struct {
	path   string
	load   func() (Config, error)
	apply  func(Config)
	logger zerolog.Logger
	delay  time.Duration

	mu       sync.Mutex
	debounce *time.Timer
}

// NewWatcher returns a Watcher for the file at path. load builds a fresh
// Config; apply receives every config that loads and validates.
func NewWatcher(path string, load func() (Config, error), apply func(Config), logger zerolog.Logger) *Watcher {
	return &Watcher{
		path:   path,
		load:   load,
		apply:  apply,
		logger: logger,
		delay:  reloadDelay,
	}
}

// Run watches the file's directory until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Info().Str("path", w.path).Msg("watching config file")

	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			w.stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.debounceReload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("config watcher error")
		}
	}
}

func (w *Watcher) debounceReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.delay, w.reload)
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
}

func (w *Watcher) reload() {
	cfg, err := w.load()
	if err != nil {
		w.logger.Warn().Err(err).Msg("config reload failed, keeping current settings")
		return
	}
	w.logger.Info().Msg("config reloaded")
	w.apply(cfg)
}
