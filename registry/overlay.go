/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"github.com/suparena/routestore/errors"
)

// mergedView caches the effective table of an overlay together with the two
// tables it was built from.
type mergedView struct {
	own    *RouteTable
	base   *RouteTable
	merged *RouteTable
}

// NewOverlay creates a registry owned by the given session that falls back to
// parent for every path it does not bind itself. Writes never reach parent.
// The overlay follows parent's changes until Close is called.
func NewOverlay(parent *Registry, owner string, opts ...Option) *Registry {
	r := New(opts...)
	r.owner = owner
	if parent != nil {
		r.mu.Lock()
		r.attach(parent)
		r.mu.Unlock()
	}
	return r
}

// attach must be called with r.mu held.
func (r *Registry) attach(parent *Registry) {
	r.parent.Store(parent)
	r.parentSub = parent.AddRoutesChangeListener(r.onParentChanged)
	r.logger.Debug().Str("parent", parent.id).Str("owner", r.owner).Msg("overlay attached")
}

func (r *Registry) effective() *RouteTable {
	own := r.table.Load()
	parent := r.parent.Load()
	if parent == nil {
		return own
	}
	base := parent.effective()
	if v := r.view.Load(); v != nil && v.own == own && v.base == base {
		return v.merged
	}
	merged := mergeTables(own, base)
	r.view.Store(&mergedView{own: own, base: base, merged: merged})
	return merged
}

// onParentChanged re-diffs a parent change through this layer's own routes so
// that changes to shadowed paths are not reported. It takes no lock: a batch
// on this overlay may be holding r.mu while it mutates the parent.
func (r *Registry) onParentChanged(event RoutesChangedEvent) {
	if r.parent.Load() != event.Source {
		return
	}
	own := r.table.Load()
	r.dispatch(mergeTables(own, event.before), mergeTables(own, event.after))
}

// Close detaches the overlay from its parent. Its own routes stay readable.
func (r *Registry) Close() {
	r.mu.Lock()
	sub := r.parentSub
	r.parentSub = nil
	r.parent.Store(nil)
	r.view.Store(nil)
	r.mu.Unlock()

	if sub != nil {
		sub.Remove()
		r.logger.Debug().Str("owner", r.owner).Msg("overlay detached")
	}
}

// Rehydrate binds a restored overlay to the live parent registry. Until it is
// called the overlay rejects writes and reads see its own routes only.
func (r *Registry) Rehydrate(parent *Registry) error {
	if parent == nil {
		return errors.NewIllegalStateError("rehydrating registry %s without a parent", r.id)
	}
	if parent == r {
		return errors.NewIllegalStateError("registry %s cannot be its own parent", r.id)
	}

	r.mu.Lock()
	if !r.detached.Load() {
		r.mu.Unlock()
		return errors.NewIllegalStateError("registry %s is not awaiting rehydration", r.id)
	}
	own := r.table.Load()
	r.attach(parent)
	r.detached.Store(false)
	r.mu.Unlock()

	// listeners registered while detached saw only the own table
	r.dispatch(own, r.effective())
	return nil
}
