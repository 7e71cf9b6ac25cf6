/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/routestore/registry"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	routes := writeFile(t, dir, "routes.yaml", "routes:\n  - path: a\n    target: A\n")

	cfg := Default()
	cfg.RoutesFile = routes

	reg := registry.New()
	require.NoError(t, cfg.Apply(reg))

	reloads := make(chan error, 4)
	w, err := NewWatcher(cfg, reg,
		WithDebounce(50*time.Millisecond),
		OnReload(func(err error) { reloads <- err }))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	eventCh := make(chan registry.RoutesChangedEvent, 4)
	reg.AddRoutesChangeListener(func(ev registry.RoutesChangedEvent) { eventCh <- ev })

	writeFile(t, dir, "routes.yaml", "routes:\n  - path: b\n    target: B\n")

	select {
	case err := <-reloads:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("routes file change was not picked up")
	}

	ev := <-eventCh
	assert.Len(t, ev.Added, 1)
	assert.Len(t, ev.Removed, 1)
	assert.True(t, reg.IsPathRegistered("b"))
	assert.False(t, reg.IsPathRegistered("a"))
}

func TestWatcherKeepsRoutesOnBadReload(t *testing.T) {
	dir := t.TempDir()
	routes := writeFile(t, dir, "routes.yaml", "routes:\n  - path: a\n    target: A\n")

	cfg := Default()
	cfg.RoutesFile = routes

	reg := registry.New()
	require.NoError(t, cfg.Apply(reg))

	reloads := make(chan error, 4)
	w, err := NewWatcher(cfg, reg,
		WithDebounce(50*time.Millisecond),
		OnReload(func(err error) { reloads <- err }))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	writeFile(t, dir, "routes.yaml", "routes:\n  - path: a\n    target: A\n  - path: a\n    target: B\n")

	select {
	case err := <-reloads:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("routes file change was not picked up")
	}
	target, ok := reg.NavigationTarget("a")
	require.True(t, ok)
	assert.Equal(t, "A", target.Name)
}

func TestNewWatcherRequiresRoutesFile(t *testing.T) {
	_, err := NewWatcher(Default(), registry.New())
	assert.Error(t, err)
}
