/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/routestore/errors"
	"github.com/suparena/routestore/registry"
)

func TestOverlayShadowsParent(t *testing.T) {
	app := registry.New()
	require.NoError(t, app.SetRoute("", home))
	require.NoError(t, app.SetRoute("about", about))

	session := registry.NewOverlay(app, "s1")
	custom := registry.Target{Name: "CustomAbout"}
	require.NoError(t, session.SetRoute("about", custom))

	got, _ := session.NavigationTarget("about")
	assert.Equal(t, custom, got)
	got, _ = session.NavigationTarget("")
	assert.Equal(t, home, got)

	got, _ = app.NavigationTarget("about")
	assert.Equal(t, about, got, "overlay writes must not reach the parent")

	url, ok := session.TargetURL(about)
	require.True(t, ok, "a fully shadowed parent target keeps the parent's primary path")
	assert.Equal(t, "about", url)

	_, err := session.URL(about)
	assert.True(t, errors.IsNotFound(err), "the shadowed path no longer leads to the parent target")
	_, ok = session.TargetURL(registry.Target{Name: "Nowhere"})
	assert.False(t, ok)
	assert.Same(t, app, session.Parent())
	assert.Equal(t, "s1", session.Owner())
	assert.Equal(t, 1, session.OwnTable().Len())
	assert.Equal(t, 2, session.Table().Len())
}

func TestOverlayMasksParentTargetInEvent(t *testing.T) {
	app := registry.New()
	require.NoError(t, app.SetRoute("x", about))

	session := registry.NewOverlay(app, "s1")
	var events []registry.RoutesChangedEvent
	session.AddRoutesChangeListener(func(ev registry.RoutesChangedEvent) { events = append(events, ev) })

	require.NoError(t, session.SetRoute("x", home))

	require.Len(t, events, 1)
	assert.Equal(t, []registry.RouteEntry{{Path: "x", Target: home}}, events[0].Added)
	assert.Equal(t, []registry.RouteEntry{{Path: "x", Target: about}}, events[0].Removed)
}

func TestOverlayRelocatesShadowedPrimary(t *testing.T) {
	app := registry.New()
	require.NoError(t, app.RegisterTarget(about, "about", []string{"info"}))

	session := registry.NewOverlay(app, "s1")
	require.NoError(t, session.SetRoute("about", home))

	url, ok := session.TargetURL(about)
	require.True(t, ok)
	assert.Equal(t, "info", url)

	url, _ = app.TargetURL(about)
	assert.Equal(t, "about", url)
}

func TestParentChangesThroughOverlay(t *testing.T) {
	app := registry.New()
	session := registry.NewOverlay(app, "s1")
	require.NoError(t, session.SetRoute("x", home))

	var events []registry.RoutesChangedEvent
	session.AddRoutesChangeListener(func(ev registry.RoutesChangedEvent) { events = append(events, ev) })

	require.NoError(t, app.SetRoute("x", about))
	assert.Empty(t, events, "change to a shadowed path is invisible")

	require.NoError(t, app.SetRoute("y", about))
	require.Len(t, events, 1)
	assert.Same(t, session, events[0].Source)
	assert.Equal(t, []registry.RouteEntry{{Path: "y", Target: about}}, events[0].Added)

	got, _ := session.NavigationTarget("y")
	assert.Equal(t, about, got)
}

func TestOverlayChain(t *testing.T) {
	app := registry.New()
	mid := registry.NewOverlay(app, "s1")
	leaf := registry.NewOverlay(mid, "s1")

	events := 0
	leaf.AddRoutesChangeListener(func(registry.RoutesChangedEvent) { events++ })

	require.NoError(t, app.SetRoute("a", home))
	got, ok := leaf.NavigationTarget("a")
	require.True(t, ok)
	assert.Equal(t, home, got)
	assert.Equal(t, 1, events)
}

func TestCloseDetachesOverlay(t *testing.T) {
	app := registry.New()
	require.NoError(t, app.SetRoute("a", home))
	session := registry.NewOverlay(app, "s1")
	require.NoError(t, session.SetRoute("b", about))

	events := 0
	session.AddRoutesChangeListener(func(registry.RoutesChangedEvent) { events++ })

	session.Close()
	session.Close()

	require.NoError(t, app.SetRoute("c", article))
	assert.Zero(t, events)
	assert.Nil(t, session.Parent())
	assert.False(t, session.IsPathRegistered("a"))
	assert.True(t, session.IsPathRegistered("b"))
}

func TestRemovingOverrideFallsBackToParent(t *testing.T) {
	a := registry.Target{Name: "A"}
	b := registry.Target{Name: "B"}

	app := registry.New()
	require.NoError(t, app.SetRoute("main", a))
	session := registry.NewOverlay(app, "s1")
	require.NoError(t, session.SetRoute("main", b))

	got, _ := session.NavigationTarget("main")
	assert.Equal(t, b, got)

	var events []registry.RoutesChangedEvent
	session.AddRoutesChangeListener(func(ev registry.RoutesChangedEvent) { events = append(events, ev) })

	require.True(t, session.RemoveRoute("main"))

	got, _ = session.NavigationTarget("main")
	assert.Equal(t, a, got)
	require.Len(t, events, 1)
	assert.Equal(t, []registry.RouteEntry{{Path: "main", Target: b}}, events[0].Removed)
	assert.Equal(t, []registry.RouteEntry{{Path: "main", Target: a}}, events[0].Added)
}

func TestOverlayBatchMayMutateParent(t *testing.T) {
	app := registry.New()
	session := registry.NewOverlay(app, "s1")

	var mu sync.Mutex
	var events []registry.RoutesChangedEvent
	session.AddRoutesChangeListener(func(ev registry.RoutesChangedEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	})

	done := make(chan error, 1)
	go func() {
		done <- session.Update(func(c *registry.Configuration) error {
			if err := c.SetRoute("local", home); err != nil {
				return err
			}
			return app.SetRoute("shared", about)
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("overlay batch mutating its parent did not return")
	}

	assert.True(t, session.IsPathRegistered("local"))
	assert.True(t, session.IsPathRegistered("shared"))
	assert.False(t, app.IsPathRegistered("local"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 2)
	assert.Equal(t, []registry.RouteEntry{{Path: "shared", Target: about}}, events[0].Added)
	assert.Equal(t, []registry.RouteEntry{{Path: "local", Target: home}}, events[1].Added)
}

func TestConcurrentParentAndOverlayWrites(t *testing.T) {
	app := registry.New()
	session := registry.NewOverlay(app, "s1")

	var mu sync.Mutex
	added := make(map[string]int)
	events := 0
	session.AddRoutesChangeListener(func(ev registry.RoutesChangedEvent) {
		mu.Lock()
		defer mu.Unlock()
		events++
		for _, e := range ev.Added {
			added[e.Path]++
		}
	})

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, app.SetRoute(fmt.Sprintf("app/%d", i), registry.Target{Name: fmt.Sprintf("App%d", i)}))
		}(i)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, session.SetRoute(fmt.Sprintf("session/%d", i), registry.Target{Name: fmt.Sprintf("Session%d", i)}))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, app.Table().Len())
	assert.Equal(t, n, session.OwnTable().Len())
	assert.Equal(t, 2*n, session.Table().Len())
	for i := 0; i < n; i++ {
		got, ok := session.NavigationTarget(fmt.Sprintf("app/%d", i))
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("App%d", i), got.Name)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2*n, events)
	assert.Len(t, added, 2*n)
	for path, count := range added {
		assert.Equal(t, 1, count, path)
	}
}
