/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/suparena/routestore/errors"
	"github.com/suparena/routestore/registry"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a registry whenever the configured routes file changes.
// A reload that fails leaves the registry as it was.
type Watcher struct {
	cfg       *Config
	reg       *registry.Registry
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	logger    zerolog.Logger
	onReload  func(error)

	stopOnce sync.Once
	done     chan struct{}
	stopped  chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithWatcherLogger sets the watcher's logger.
func WithWatcherLogger(logger zerolog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// OnReload is called after every reload attempt with its result.
func OnReload(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher watches cfg.RoutesFile and re-applies cfg to reg on change.
func NewWatcher(cfg *Config, reg *registry.Registry, opts ...WatcherOption) (*Watcher, error) {
	if cfg.RoutesFile == "" {
		return nil, errors.NewValidationError("routesFile", "nothing to watch")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	w := &Watcher{
		cfg:       cfg,
		reg:       reg,
		fsWatcher: fsw,
		debounce:  DefaultDebounce,
		logger:    zerolog.Nop(),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start watches the directory holding the routes file. Editors often replace
// the file instead of writing it, which a watch on the file itself would miss.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.cfg.RoutesFile)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}
	go w.loop()
	w.logger.Info().Str("file", w.cfg.RoutesFile).Msg("watching routes file")
	return nil
}

// Stop ends the watch and waits for the loop to exit.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	<-w.stopped
	return err
}

func (w *Watcher) loop() {
	defer close(w.stopped)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("routes file watch error")

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) reload() {
	err := w.cfg.Apply(w.reg)
	if err != nil {
		w.logger.Error().Err(err).Str("file", w.cfg.RoutesFile).Msg("routes reload failed, keeping previous routes")
	} else {
		w.logger.Info().Str("file", w.cfg.RoutesFile).Int("routes", w.reg.OwnTable().Len()).Msg("routes reloaded")
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}

func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == filepath.Clean(w.cfg.RoutesFile)
}
