/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"slices"
	"sort"
)

// RouteTable is an immutable snapshot of a registry layer. Mutations build a
// new table through a tableBuilder and never touch a published one, so a
// table obtained from a Registry may be read from any goroutine.
type RouteTable struct {
	routes       map[string]*pathTargets
	primary      map[string]string // target name -> primary path
	targets      map[string]Target
	errorTargets []errorTarget
}

var emptyTable = newRouteTable()

func newRouteTable() *RouteTable {
	return &RouteTable{
		routes:  make(map[string]*pathTargets),
		primary: make(map[string]string),
		targets: make(map[string]Target),
	}
}

// Len returns the number of registered paths.
func (t *RouteTable) Len() int {
	return len(t.routes)
}

// IsEmpty reports whether the table holds neither routes nor error targets.
func (t *RouteTable) IsEmpty() bool {
	return len(t.routes) == 0 && len(t.errorTargets) == 0
}

// HasPath reports whether any target is bound at path.
func (t *RouteTable) HasPath(path string) bool {
	_, ok := t.routes[NormalizePath(path)]
	return ok
}

// NavigationTarget resolves path and the URL segments following it.
func (t *RouteTable) NavigationTarget(path string, segments ...string) (Target, bool) {
	pt, ok := t.routes[NormalizePath(path)]
	if !ok {
		return Target{}, false
	}
	return pt.resolve(segments)
}

// TargetURL returns the primary path of target.
func (t *RouteTable) TargetURL(target Target) (string, bool) {
	path, ok := t.primary[target.Name]
	return path, ok
}

// Target returns the registered form of the target called name.
func (t *RouteTable) Target(name string) (Target, bool) {
	target, ok := t.targets[name]
	return target, ok
}

// RouteLayouts returns the parent layout chain stored for target at path.
func (t *RouteTable) RouteLayouts(path string, target Target) []string {
	pt, ok := t.routes[NormalizePath(path)]
	if !ok {
		return nil
	}
	return slices.Clone(pt.layoutsOf(target.Name))
}

// Paths returns every path bound to target, sorted.
func (t *RouteTable) Paths(target Target) []string {
	var paths []string
	for path, pt := range t.routes {
		if pt.has(target.Name) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

// Entries lists every (path, target) binding ordered by path, then parameter kind.
func (t *RouteTable) Entries() []RouteEntry {
	paths := make([]string, 0, len(t.routes))
	for path := range t.routes {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	entries := make([]RouteEntry, 0, len(paths))
	for _, path := range paths {
		entries = append(entries, t.entriesAt(path)...)
	}
	return entries
}

func (t *RouteTable) entriesAt(path string) []RouteEntry {
	var entries []RouteEntry
	t.routes[path].each(func(target Target, layouts []string) {
		entries = append(entries, RouteEntry{
			Path:          path,
			Target:        target,
			Alias:         t.primary[target.Name] != path,
			ParentLayouts: slices.Clone(layouts),
		})
	})
	return entries
}

// RegisteredRoutes groups the table by target: primary path, layouts and aliases.
func (t *RouteTable) RegisteredRoutes() []RouteData {
	byTarget := make(map[string]*RouteData, len(t.primary))
	for name, path := range t.primary {
		byTarget[name] = &RouteData{
			Path:          path,
			Target:        t.targets[name],
			ParentLayouts: slices.Clone(t.routes[path].layoutsOf(name)),
		}
	}
	for _, entry := range t.Entries() {
		if !entry.Alias {
			continue
		}
		data, ok := byTarget[entry.Target.Name]
		if !ok {
			continue
		}
		data.Aliases = append(data.Aliases, AliasData{Path: entry.Path, ParentLayouts: entry.ParentLayouts})
	}

	routes := make([]RouteData, 0, len(byTarget))
	for _, data := range byTarget {
		routes = append(routes, *data)
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Target.Parameter < routes[j].Target.Parameter
	})
	return routes
}

// mergeTables layers own over base: own paths shadow base paths entirely.
// Error targets are not merged; they are looked up layer by layer.
// A base target keeps its primary path while that path still shows it,
// otherwise its smallest visible path becomes primary; a base target with no
// visible path disappears.
func mergeTables(own, base *RouteTable) *RouteTable {
	if base == nil || len(base.routes) == 0 {
		return own
	}
	if len(own.routes) == 0 {
		return base
	}

	merged := &RouteTable{
		routes:  make(map[string]*pathTargets, len(base.routes)+len(own.routes)),
		primary: make(map[string]string, len(base.primary)+len(own.primary)),
		targets: make(map[string]Target, len(base.targets)+len(own.targets)),
	}
	for path, pt := range base.routes {
		merged.routes[path] = pt
	}
	for path, pt := range own.routes {
		merged.routes[path] = pt
	}
	for name, target := range own.targets {
		merged.targets[name] = target
	}
	for name, path := range own.primary {
		merged.primary[name] = path
	}

	relocate := make(map[string][]string)
	for name, path := range base.primary {
		if _, ok := merged.primary[name]; ok {
			continue
		}
		if merged.routes[path].has(name) {
			merged.primary[name] = path
			merged.targets[name] = base.targets[name]
			continue
		}
		relocate[name] = nil
	}
	if len(relocate) > 0 {
		for path, pt := range merged.routes {
			pt.each(func(target Target, _ []string) {
				if visible, ok := relocate[target.Name]; ok {
					relocate[target.Name] = append(visible, path)
				}
			})
		}
		for name, visible := range relocate {
			if len(visible) == 0 {
				continue
			}
			sort.Strings(visible)
			merged.primary[name] = visible[0]
			merged.targets[name] = base.targets[name]
		}
	}
	return merged
}
