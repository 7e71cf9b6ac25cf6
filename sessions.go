/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package routestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/suparena/routestore/datastore"
	"github.com/suparena/routestore/errors"
	"github.com/suparena/routestore/registry"
	"github.com/suparena/routestore/storagemodels"
)

const (
	DefaultIdleTimeout     = 30 * time.Minute
	DefaultCleanupInterval = 5 * time.Minute
)

// SessionManager keeps the live sessions of one application. Sessions expire
// after the idle timeout; an expired or ended session's overlay is detached
// from the application registry.
type SessionManager struct {
	app         *Context
	store       datastore.DataStore[storagemodels.SessionRoutes]
	cache       *gocache.Cache
	idleTimeout time.Duration
	logger      zerolog.Logger
}

// ManagerOption configures a SessionManager.
type ManagerOption func(*managerOptions)

type managerOptions struct {
	store           datastore.DataStore[storagemodels.SessionRoutes]
	idleTimeout     time.Duration
	cleanupInterval time.Duration
}

// WithSnapshotStore sets the store used by Passivate and Activate.
func WithSnapshotStore(store datastore.DataStore[storagemodels.SessionRoutes]) ManagerOption {
	return func(o *managerOptions) {
		o.store = store
	}
}

// WithIdleTimeout sets how long an unused session lives and how often
// expired sessions are swept.
func WithIdleTimeout(idle, cleanupInterval time.Duration) ManagerOption {
	return func(o *managerOptions) {
		o.idleTimeout = idle
		o.cleanupInterval = cleanupInterval
	}
}

// NewSessionManager creates the session manager of app.
func NewSessionManager(app *Context, opts ...ManagerOption) *SessionManager {
	o := managerOptions{
		idleTimeout:     DefaultIdleTimeout,
		cleanupInterval: DefaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &SessionManager{
		app:         app,
		store:       o.store,
		cache:       gocache.New(o.idleTimeout, o.cleanupInterval),
		idleTimeout: o.idleTimeout,
		logger:      app.logger,
	}
	m.cache.OnEvicted(func(id string, value any) {
		if s, ok := value.(*Session); ok {
			s.close()
			m.logger.Info().Str("session", id).Msg("session ended")
		}
	})
	return m
}

// Open starts a new session.
func (m *SessionManager) Open() *Session {
	s := NewSession(m.app, "")
	m.cache.Set(s.id, s, gocache.DefaultExpiration)
	m.logger.Info().Str("session", s.id).Msg("session opened")
	return s
}

// Get returns a live session and extends its idle timeout.
func (m *SessionManager) Get(id string) (*Session, bool) {
	value, found := m.cache.Get(id)
	if !found {
		return nil, false
	}
	s, ok := value.(*Session)
	if !ok {
		m.logger.Error().Str("session", id).Msg("wrong type assertion when getting session")
		return nil, false
	}
	m.cache.Set(id, s, gocache.DefaultExpiration)
	return s, true
}

// End discards a session and detaches its overlay.
func (m *SessionManager) End(id string) bool {
	if _, found := m.cache.Get(id); !found {
		return false
	}
	m.cache.Delete(id)
	return true
}

// Sessions lists the ids of the live sessions, sorted.
func (m *SessionManager) Sessions() []string {
	items := m.cache.Items()
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	return m.cache.ItemCount()
}

// Passivate stores the session's overlay snapshot and ends the session.
func (m *SessionManager) Passivate(ctx context.Context, id string) error {
	if m.store == nil {
		return errors.NewIllegalStateError("session manager has no snapshot store")
	}
	s, ok := m.Get(id)
	if !ok {
		return errors.NewNotFoundError("session", id)
	}

	if SessionRegistryExists(s) {
		reg, err := SessionRegistry(s)
		if err != nil {
			return err
		}
		snap := reg.Snapshot()
		snap.Application = m.app.Name()
		if err := m.store.Put(ctx, snap); err != nil {
			return fmt.Errorf("passivate session %s: %w", id, err)
		}
		m.logger.Info().Str("session", id).Int("routes", len(snap.Routes)).Msg("session passivated")
	}
	m.End(id)
	return nil
}

// Activate reloads a passivated session. Its overlay is restored and
// rehydrated against the application registry before the session is
// returned.
func (m *SessionManager) Activate(ctx context.Context, id string) (*Session, error) {
	if m.store == nil {
		return nil, errors.NewIllegalStateError("session manager has no snapshot store")
	}
	if s, ok := m.Get(id); ok {
		return s, nil
	}

	snap, err := m.store.GetOne(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("activate session %s: %w", id, err)
	}
	if snap.Application != m.app.Name() {
		return nil, errors.NewIllegalStateError("session %s belongs to application %q, not %q", id, snap.Application, m.app.Name())
	}

	s := NewSession(m.app, id)
	reg, err := registry.Restore(*snap, registry.WithLogger(s.logger))
	if err != nil {
		return nil, fmt.Errorf("activate session %s: %w", id, err)
	}
	if err := reg.Rehydrate(ApplicationRegistry(m.app)); err != nil {
		return nil, err
	}
	if err := SetSessionRegistry(s, reg); err != nil {
		reg.Close()
		return nil, err
	}

	if err := m.cache.Add(id, s, gocache.DefaultExpiration); err != nil {
		// a concurrent Activate or Open of the same id won
		reg.Close()
		if live, ok := m.Get(id); ok {
			return live, nil
		}
		return nil, errors.NewIllegalStateError("session %s was activated and ended concurrently", id)
	}
	m.logger.Info().Str("session", id).Int64("version", snap.Version).Msg("session activated")
	return s, nil
}

// Close ends every live session.
func (m *SessionManager) Close() {
	for _, id := range m.Sessions() {
		m.cache.Delete(id)
	}
}
