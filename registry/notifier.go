/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"sync"
)

// RoutesChangedEvent describes the net effect of one committed mutation as
// seen through the registry that dispatched it.
type RoutesChangedEvent struct {
	Source  *Registry
	Added   []RouteEntry
	Removed []RouteEntry

	// effective tables around the change, used by overlays to re-diff
	before *RouteTable
	after  *RouteTable
}

// RoutesChangedListener receives change events. It runs on the goroutine that
// committed the change, after the registry lock has been released.
type RoutesChangedListener func(RoutesChangedEvent)

// Registration is returned by AddRoutesChangeListener.
type Registration struct {
	once   sync.Once
	remove func()
}

// Remove unregisters the listener. Calling it more than once is harmless.
func (r *Registration) Remove() {
	if r == nil {
		return
	}
	r.once.Do(r.remove)
}

type listener struct {
	fn RoutesChangedListener
}

type entryKey struct {
	path   string
	target string
}

// diffTables computes the change from old to next keyed by (path, target).
// Entries whose alias flag or layouts changed are reported in Added with
// their new state only, so promoting an alias after its primary path is
// removed yields one removed and one added entry.
func diffTables(old, next *RouteTable) (added, removed []RouteEntry) {
	if old == next {
		return nil, nil
	}
	previous := make(map[entryKey]RouteEntry)
	for _, e := range old.Entries() {
		previous[entryKey{e.Path, e.Target.Name}] = e
	}
	for _, e := range next.Entries() {
		key := entryKey{e.Path, e.Target.Name}
		prev, ok := previous[key]
		delete(previous, key)
		if ok && prev.equal(e) {
			continue
		}
		// new bindings, and bindings whose alias flag or layouts changed
		added = append(added, e)
	}
	for _, e := range old.Entries() {
		if _, gone := previous[entryKey{e.Path, e.Target.Name}]; gone {
			removed = append(removed, e)
		}
	}
	return added, removed
}
