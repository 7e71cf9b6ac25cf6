/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package routestore_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/routestore"
	"github.com/suparena/routestore/datastore/mock"
	"github.com/suparena/routestore/errors"
	"github.com/suparena/routestore/registry"
	"github.com/suparena/routestore/storagemodels"
)

var (
	dashboard  = registry.Target{Name: "Dashboard"}
	onboarding = registry.Target{Name: "Onboarding"}
)

func TestApplicationRegistryIsPerContext(t *testing.T) {
	a := routestore.NewContext("a")
	b := routestore.NewContext("b")

	assert.Same(t, routestore.ApplicationRegistry(a), routestore.ApplicationRegistry(a))
	assert.NotSame(t, routestore.ApplicationRegistry(a), routestore.ApplicationRegistry(b))
}

func TestSessionRegistryLazyOverlay(t *testing.T) {
	app := routestore.NewContext("admin")
	global := routestore.ApplicationRegistry(app)
	require.NoError(t, global.SetRoute("main", dashboard))

	s := routestore.NewSession(app, "")
	assert.False(t, routestore.SessionRegistryExists(s))

	overlay, err := routestore.SessionRegistry(s)
	require.NoError(t, err)
	assert.True(t, routestore.SessionRegistryExists(s))
	assert.Same(t, global, overlay.Parent())
	assert.Equal(t, s.ID(), overlay.Owner())

	again, err := routestore.SessionRegistry(s)
	require.NoError(t, err)
	assert.Same(t, overlay, again)

	require.NoError(t, overlay.SetRoute("main", onboarding))
	got, _ := overlay.NavigationTarget("main")
	assert.Equal(t, onboarding, got)
	got, _ = global.NavigationTarget("main")
	assert.Equal(t, dashboard, got)
}

func TestSessionRegistryConcurrentFirstAccess(t *testing.T) {
	app := routestore.NewContext("admin")
	s := routestore.NewSession(app, "")

	var wg sync.WaitGroup
	regs := make([]*registry.Registry, 8)
	for i := range regs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			regs[i], _ = routestore.SessionRegistry(s)
		}(i)
	}
	wg.Wait()
	for _, r := range regs {
		assert.Same(t, regs[0], r)
	}
}

func TestCrossSessionAttachmentFails(t *testing.T) {
	app := routestore.NewContext("admin")
	first := routestore.NewSession(app, "first")
	second := routestore.NewSession(app, "second")

	overlay, err := routestore.SessionRegistry(first)
	require.NoError(t, err)

	err = routestore.SetSessionRegistry(second, overlay)
	require.Error(t, err)
	assert.True(t, errors.IsIllegalState(err))
	assert.False(t, routestore.SessionRegistryExists(second))

	assert.True(t, errors.IsIllegalState(routestore.SetSessionRegistry(second, nil)))
}

func TestSetSessionRegistryClosesReplacedOverlay(t *testing.T) {
	app := routestore.NewContext("admin")
	global := routestore.ApplicationRegistry(app)
	s := routestore.NewSession(app, "first")

	old, err := routestore.SessionRegistry(s)
	require.NoError(t, err)
	events := 0
	old.AddRoutesChangeListener(func(registry.RoutesChangedEvent) { events++ })

	replacement := registry.NewOverlay(global, s.ID())
	require.NoError(t, routestore.SetSessionRegistry(s, replacement))
	require.NoError(t, routestore.SetSessionRegistry(s, replacement))

	current, err := routestore.SessionRegistry(s)
	require.NoError(t, err)
	assert.Same(t, replacement, current)
	assert.Nil(t, old.Parent())

	require.NoError(t, global.SetRoute("main", dashboard))
	assert.Zero(t, events, "replaced overlay must not follow the application registry")
	assert.Same(t, global, replacement.Parent())
}

func TestSetSessionRegistryRejectsOtherApplication(t *testing.T) {
	admin := routestore.NewContext("admin")
	shop := routestore.NewContext("shop")
	s := routestore.NewSession(admin, "first")

	foreign := registry.NewOverlay(routestore.ApplicationRegistry(shop), s.ID())
	defer foreign.Close()

	err := routestore.SetSessionRegistry(s, foreign)
	assert.True(t, errors.IsIllegalState(err))
	assert.False(t, routestore.SessionRegistryExists(s))

	detached := registry.NewOverlay(nil, s.ID())
	assert.True(t, errors.IsIllegalState(routestore.SetSessionRegistry(s, detached)))
}

func newMockSnapshotStore() *mock.DataStore[storagemodels.SessionRoutes] {
	return mock.New[storagemodels.SessionRoutes]().
		WithGetKeyFunc(func(s storagemodels.SessionRoutes) string { return string(s.SessionID) }).
		WithPartitionFunc(func(s storagemodels.SessionRoutes) string { return s.Application })
}

func TestSessionManagerLifecycle(t *testing.T) {
	app := routestore.NewContext("admin")
	global := routestore.ApplicationRegistry(app)
	manager := routestore.NewSessionManager(app)
	defer manager.Close()

	s := manager.Open()
	got, ok := manager.Get(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, []string{s.ID()}, manager.Sessions())

	overlay, err := routestore.SessionRegistry(s)
	require.NoError(t, err)

	events := 0
	overlay.AddRoutesChangeListener(func(registry.RoutesChangedEvent) { events++ })

	assert.True(t, manager.End(s.ID()))
	assert.False(t, manager.End(s.ID()))
	assert.Nil(t, overlay.Parent())
	assert.False(t, routestore.SessionRegistryExists(s))

	require.NoError(t, global.SetRoute("main", dashboard))
	assert.Zero(t, events, "ended session must not follow the application registry")
}

func TestSessionManagerIdleExpiry(t *testing.T) {
	app := routestore.NewContext("admin")
	manager := routestore.NewSessionManager(app, routestore.WithIdleTimeout(50*time.Millisecond, 10*time.Millisecond))
	defer manager.Close()

	s := manager.Open()
	overlay, err := routestore.SessionRegistry(s)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return manager.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return overlay.Parent() == nil }, time.Second, 10*time.Millisecond)
}

func TestPassivateActivate(t *testing.T) {
	ctx := context.Background()
	app := routestore.NewContext("admin")
	global := routestore.ApplicationRegistry(app)
	require.NoError(t, global.SetRoute("main", dashboard))
	require.NoError(t, global.SetRoute("help", registry.Target{Name: "Help"}))

	store := newMockSnapshotStore()
	manager := routestore.NewSessionManager(app, routestore.WithSnapshotStore(store))
	defer manager.Close()

	s := manager.Open()
	id := s.ID()
	overlay, err := routestore.SessionRegistry(s)
	require.NoError(t, err)
	require.NoError(t, overlay.RegisterTarget(onboarding, "main", []string{"welcome"}, "MainLayout"))

	require.NoError(t, manager.Passivate(ctx, id))
	_, live := manager.Get(id)
	assert.False(t, live)
	require.Equal(t, 1, store.Count())

	stored, err := store.GetOne(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "admin", stored.Application)
	assert.Len(t, stored.Routes, 2)

	// the application changes while the session is passivated
	require.NoError(t, global.SetRoute("news", registry.Target{Name: "News"}))

	restored, err := manager.Activate(ctx, id)
	require.NoError(t, err)
	reg, err := routestore.SessionRegistry(restored)
	require.NoError(t, err)
	assert.Same(t, global, reg.Parent())

	target, _ := reg.NavigationTarget("main")
	assert.Equal(t, onboarding, target)
	target, _ = reg.NavigationTarget("news")
	assert.Equal(t, "News", target.Name)
	assert.Equal(t, []string{"MainLayout"}, reg.RouteLayouts("welcome", onboarding))

	// rehydrated overlays accept writes again
	require.NoError(t, reg.SetRoute("help", registry.Target{Name: "SessionHelp"}))
}

func TestConcurrentActivateSharesOneSession(t *testing.T) {
	ctx := context.Background()
	app := routestore.NewContext("admin")
	store := newMockSnapshotStore()
	manager := routestore.NewSessionManager(app, routestore.WithSnapshotStore(store))
	defer manager.Close()

	s := manager.Open()
	id := s.ID()
	overlay, err := routestore.SessionRegistry(s)
	require.NoError(t, err)
	require.NoError(t, overlay.SetRoute("main", onboarding))
	require.NoError(t, manager.Passivate(ctx, id))

	const n = 8
	var wg sync.WaitGroup
	sessions := make([]*routestore.Session, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := manager.Activate(ctx, id)
			assert.NoError(t, err)
			sessions[i] = got
		}(i)
	}
	wg.Wait()

	for _, got := range sessions {
		assert.Same(t, sessions[0], got)
	}
	live, ok := manager.Get(id)
	require.True(t, ok)
	assert.Same(t, sessions[0], live)

	reg, err := routestore.SessionRegistry(live)
	require.NoError(t, err)
	target, _ := reg.NavigationTarget("main")
	assert.Equal(t, onboarding, target)
}

func TestActivateUnknownSession(t *testing.T) {
	app := routestore.NewContext("admin")
	manager := routestore.NewSessionManager(app, routestore.WithSnapshotStore(newMockSnapshotStore()))
	defer manager.Close()

	_, err := manager.Activate(context.Background(), "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestActivateRejectsOtherApplication(t *testing.T) {
	ctx := context.Background()
	store := newMockSnapshotStore()
	require.NoError(t, store.Put(ctx, storagemodels.SessionRoutes{SessionID: "s-1", Application: "shop"}))

	manager := routestore.NewSessionManager(routestore.NewContext("admin"), routestore.WithSnapshotStore(store))
	defer manager.Close()

	_, err := manager.Activate(ctx, "s-1")
	assert.True(t, errors.IsIllegalState(err))
}

func TestPassivateWithoutStore(t *testing.T) {
	manager := routestore.NewSessionManager(routestore.NewContext("admin"))
	defer manager.Close()

	s := manager.Open()
	assert.True(t, errors.IsIllegalState(manager.Passivate(context.Background(), s.ID())))
}

func TestFileSnapshotStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := routestore.NewFileSnapshotStore(filepath.Join(t.TempDir(), "snapshots"), zerolog.Nop())
	require.NoError(t, err)

	app := routestore.NewContext("admin")
	manager := routestore.NewSessionManager(app, routestore.WithSnapshotStore(store))
	defer manager.Close()

	s := manager.Open()
	overlay, err := routestore.SessionRegistry(s)
	require.NoError(t, err)
	require.NoError(t, overlay.SetRoute("main", onboarding))
	require.NoError(t, overlay.SetErrorTarget(registry.KindNotFound, registry.Target{Name: "SessionMissing"}))

	require.NoError(t, manager.Passivate(ctx, s.ID()))
	restored, err := manager.Activate(ctx, s.ID())
	require.NoError(t, err)

	reg, err := routestore.SessionRegistry(restored)
	require.NoError(t, err)
	entry, ok := reg.ErrorNavigationTarget(errors.NewNotFoundError("route", "x"))
	require.True(t, ok)
	assert.Equal(t, "SessionMissing", entry.Target.Name)
}
