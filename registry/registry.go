/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/suparena/routestore/errors"
)

// Registry maps URL paths to navigation targets. Reads are lock free and see
// the last committed table; writes are serialized by a per-registry mutex and
// publish a new table on commit. A Registry created by NewOverlay layers its
// own routes over a parent registry.
type Registry struct {
	id     string
	owner  string
	logger zerolog.Logger

	mu        sync.Mutex
	table     atomic.Pointer[RouteTable]
	parent    atomic.Pointer[Registry]
	parentSub *Registration
	view      atomic.Pointer[mergedView]
	detached  atomic.Bool
	version   atomic.Int64

	listenersMu sync.Mutex
	listeners   []*listener
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registration and dispatch messages.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithID overrides the generated registry id.
func WithID(id string) Option {
	return func(r *Registry) {
		r.id = id
	}
}

// New creates an empty registry with no parent.
func New(opts ...Option) *Registry {
	r := &Registry{
		id:     uuid.NewString(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With().Str("registry", r.id).Logger()
	r.table.Store(emptyTable)
	return r
}

// ID returns the registry id.
func (r *Registry) ID() string { return r.id }

// Owner returns the session id an overlay belongs to, or "" for an
// application registry.
func (r *Registry) Owner() string { return r.owner }

// Parent returns the registry this overlay falls back to, or nil.
func (r *Registry) Parent() *Registry { return r.parent.Load() }

// Version counts the commits applied to this registry's own table.
func (r *Registry) Version() int64 { return r.version.Load() }

// OwnTable returns this layer's routes without its parent's.
func (r *Registry) OwnTable() *RouteTable { return r.table.Load() }

// Table returns the effective table: this layer's routes over its parent's.
func (r *Registry) Table() *RouteTable { return r.effective() }

// Update runs fn against a private copy of the registry's table while holding
// the write lock. If fn returns nil and changed anything, the copy is
// published and listeners receive a single event with the net change. If fn
// returns an error nothing is published.
//
// The lock is not reentrant: fn must mutate r only through the Configuration
// it is given. Calling r's own mutation methods (SetRoute, Update, ...) from fn
// deadlocks. Mutating other registries, including r's parent, is allowed.
func (r *Registry) Update(fn func(*Configuration) error) error {
	before, after, err := r.commit(fn)
	if err != nil {
		return err
	}
	if before != nil {
		r.dispatch(before, after)
	}
	return nil
}

func (r *Registry) commit(fn func(*Configuration) error) (before, after *RouteTable, err error) {
	if r.detached.Load() {
		return nil, nil, errors.NewIllegalStateError("registry %s must be rehydrated before it is modified", r.id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.table.Load()
	cfg := &Configuration{builder: old.edit(r.logger)}
	defer func() { cfg.sealed = true }()

	if err := fn(cfg); err != nil {
		return nil, nil, err
	}
	if !cfg.builder.dirty {
		return nil, nil, nil
	}

	next := cfg.builder.build()
	var base *RouteTable
	if parent := r.parent.Load(); parent != nil {
		base = parent.effective()
	}
	r.table.Store(next)
	r.version.Add(1)
	return mergeTables(old, base), mergeTables(next, base), nil
}

// SetRoute binds target at path. It fails with a naming conflict when another
// target holds the same slot at path in this registry's own table.
func (r *Registry) SetRoute(path string, target Target, parentLayouts ...string) error {
	return r.Update(func(c *Configuration) error {
		return c.SetRoute(path, target, parentLayouts...)
	})
}

// RegisterTarget binds target at primary and all aliases in one commit.
func (r *Registry) RegisterTarget(target Target, primary string, aliases []string, parentLayouts ...string) error {
	return r.Update(func(c *Configuration) error {
		return c.RegisterTarget(target, primary, aliases, parentLayouts...)
	})
}

// RemoveRoute unbinds path. Targets that lose their primary path get their
// smallest remaining alias promoted.
func (r *Registry) RemoveRoute(path string) bool {
	var removed bool
	err := r.Update(func(c *Configuration) error {
		removed = c.RemoveRoute(path)
		return nil
	})
	return err == nil && removed
}

// RemoveTarget unbinds target from every path of this registry's own table.
func (r *Registry) RemoveTarget(target Target) bool {
	var removed bool
	err := r.Update(func(c *Configuration) error {
		removed = c.RemoveTarget(target)
		return nil
	})
	return err == nil && removed
}

// RemoveTargetAt unbinds target from path only.
func (r *Registry) RemoveTargetAt(path string, target Target) bool {
	var removed bool
	err := r.Update(func(c *Configuration) error {
		removed = c.RemoveTargetAt(path, target)
		return nil
	})
	return err == nil && removed
}

// SetErrorTarget routes errors of the given kind to target.
func (r *Registry) SetErrorTarget(kind string, target Target) error {
	return r.Update(func(c *Configuration) error {
		return c.SetErrorTarget(kind, target)
	})
}

// NavigationTarget resolves path and any URL segments after it.
func (r *Registry) NavigationTarget(path string, segments ...string) (Target, bool) {
	return r.effective().NavigationTarget(path, segments...)
}

// TargetURL returns the primary path of target. A parent target whose paths
// are all shadowed by this layer keeps the primary path the parent reports.
func (r *Registry) TargetURL(target Target) (string, bool) {
	path, _, ok := r.lookupTarget(target.Name)
	return path, ok
}

func (r *Registry) lookupTarget(name string) (string, Target, bool) {
	tbl := r.effective()
	if path, ok := tbl.primary[name]; ok {
		return path, tbl.targets[name], true
	}
	if parent := r.parent.Load(); parent != nil {
		return parent.lookupTarget(name)
	}
	return "", Target{}, false
}

// RouteLayouts returns the parent layout chain registered for target at path.
func (r *Registry) RouteLayouts(path string, target Target) []string {
	return r.effective().RouteLayouts(path, target)
}

// RegisteredRoutes lists every visible target with its primary path and aliases.
func (r *Registry) RegisteredRoutes() []RouteData {
	return r.effective().RegisteredRoutes()
}

// IsPathRegistered reports whether path resolves to anything.
func (r *Registry) IsPathRegistered(path string) bool {
	return r.effective().HasPath(path)
}

// HasRoutes reports whether any route is visible through this registry.
func (r *Registry) HasRoutes() bool {
	return r.effective().Len() > 0
}

// ErrorNavigationTarget picks the target that renders err. Layers are tried
// from this registry up through its parents; the boolean is false when no
// layer matched and a built-in default was returned.
func (r *Registry) ErrorNavigationTarget(err error) (ErrorTargetEntry, bool) {
	for layer := r; layer != nil; layer = layer.parent.Load() {
		if entry, ok := layer.table.Load().errorTargetFor(err); ok {
			return entry, true
		}
	}
	return defaultErrorTarget(err), false
}

// URL builds the location of target with segments appended. The segment count
// must suit the target's parameter kind, and the result must resolve back to
// target rather than to a stronger binding at the same path.
func (r *Registry) URL(target Target, segments ...string) (string, error) {
	path, registered, ok := r.lookupTarget(target.Name)
	if !ok {
		return "", errors.NewNotFoundError("navigation target", target.Name)
	}
	tbl := r.effective()

	n := len(segments)
	switch registered.Parameter {
	case NoParameter:
		if n != 0 {
			return "", errors.NewValidationError("segments", fmt.Sprintf("%q takes no URL parameter", target.Name))
		}
	case RequiredParameter:
		if n != 1 {
			return "", errors.NewValidationError("segments", fmt.Sprintf("%q requires exactly one URL parameter", target.Name))
		}
	case OptionalParameter:
		if n > 1 {
			return "", errors.NewValidationError("segments", fmt.Sprintf("%q takes at most one URL parameter", target.Name))
		}
	}

	if resolved, ok := tbl.NavigationTarget(path, segments...); !ok || resolved.Name != target.Name {
		return "", fmt.Errorf("url for %q resolves to %q: %w", target.Name, resolved.Name, errors.ErrNotFound)
	}

	parts := make([]string, 0, n+1)
	if path != "" {
		parts = append(parts, path)
	}
	for _, s := range segments {
		parts = append(parts, url.PathEscape(s))
	}
	return strings.Join(parts, "/"), nil
}

// AddRoutesChangeListener registers fn for every committed change visible
// through this registry.
func (r *Registry) AddRoutesChangeListener(fn RoutesChangedListener) *Registration {
	l := &listener{fn: fn}
	r.listenersMu.Lock()
	r.listeners = append(r.listeners, l)
	r.listenersMu.Unlock()

	return &Registration{remove: func() {
		r.listenersMu.Lock()
		defer r.listenersMu.Unlock()
		for i, existing := range r.listeners {
			if existing == l {
				r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
				return
			}
		}
	}}
}

func (r *Registry) dispatch(before, after *RouteTable) {
	added, removed := diffTables(before, after)
	if len(added) == 0 && len(removed) == 0 {
		return
	}

	r.listenersMu.Lock()
	listeners := make([]*listener, len(r.listeners))
	copy(listeners, r.listeners)
	r.listenersMu.Unlock()

	r.logger.Debug().
		Int("added", len(added)).
		Int("removed", len(removed)).
		Int("listeners", len(listeners)).
		Msg("dispatching routes changed event")

	event := RoutesChangedEvent{
		Source:  r,
		Added:   added,
		Removed: removed,
		before:  before,
		after:   after,
	}
	for _, l := range listeners {
		l.fn(event)
	}
}
