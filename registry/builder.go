/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"slices"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/suparena/routestore/errors"
)

// tableBuilder is the mutable copy of a RouteTable used while a registry's
// lock is held. The maps are copied once per batch; pathTargets values are
// shared with the source table because they are themselves immutable.
type tableBuilder struct {
	routes       map[string]*pathTargets
	primary      map[string]string
	targets      map[string]Target
	errorTargets []errorTarget
	dirty        bool
	logger       zerolog.Logger
}

func (t *RouteTable) edit(logger zerolog.Logger) *tableBuilder {
	b := &tableBuilder{
		routes:       make(map[string]*pathTargets, len(t.routes)),
		primary:      make(map[string]string, len(t.primary)),
		targets:      make(map[string]Target, len(t.targets)),
		errorTargets: slices.Clone(t.errorTargets),
		logger:       logger,
	}
	for path, pt := range t.routes {
		b.routes[path] = pt
	}
	for name, path := range t.primary {
		b.primary[name] = path
	}
	for name, target := range t.targets {
		b.targets[name] = target
	}
	return b
}

func (b *tableBuilder) build() *RouteTable {
	return &RouteTable{
		routes:       b.routes,
		primary:      b.primary,
		targets:      b.targets,
		errorTargets: b.errorTargets,
	}
}

func validatePath(path string) error {
	if strings.ContainsAny(path, "{}?#") || strings.Contains(path, "//") {
		return errors.NewInvalidConfigurationError("", "invalid route path %q", path)
	}
	return nil
}

func (b *tableBuilder) setRoute(path string, target Target, layouts []string) error {
	path = NormalizePath(path)
	if err := target.validate(); err != nil {
		return err
	}
	if err := validatePath(path); err != nil {
		return err
	}
	if known, ok := b.targets[target.Name]; ok && known.Parameter != target.Parameter {
		return errors.NewInvalidConfigurationError(target.Name,
			"already registered with parameter kind %s, got %s", known.Parameter, target.Parameter)
	}

	next, err := b.routes[path].with(path, target, layouts)
	if err != nil {
		b.logger.Warn().Err(err).Str("path", path).Str("target", target.Name).Msg("route rejected")
		return err
	}

	b.logger.Debug().Str("path", path).Str("target", target.Name).Msg("registering route")
	b.routes[path] = next
	b.targets[target.Name] = target
	if _, ok := b.primary[target.Name]; !ok {
		b.primary[target.Name] = path
	}
	b.dirty = true
	return nil
}

// setPrimary makes path the primary path of a target already bound there.
func (b *tableBuilder) setPrimary(path string, target Target) {
	path = NormalizePath(path)
	if b.routes[path].has(target.Name) && b.primary[target.Name] != path {
		b.primary[target.Name] = path
		b.dirty = true
	}
}

func (b *tableBuilder) removePath(path string) bool {
	path = NormalizePath(path)
	pt, ok := b.routes[path]
	if !ok {
		return false
	}
	delete(b.routes, path)
	pt.each(func(target Target, _ []string) {
		b.releasePrimary(target.Name, path)
	})
	b.dirty = true
	return true
}

func (b *tableBuilder) removeTargetAt(path string, target Target) bool {
	path = NormalizePath(path)
	pt, ok := b.routes[path]
	if !ok {
		return false
	}
	next := pt.without(target.Name)
	if next == pt {
		return false
	}
	if next.empty() {
		delete(b.routes, path)
	} else {
		b.routes[path] = next
	}
	b.releasePrimary(target.Name, path)
	b.dirty = true
	return true
}

func (b *tableBuilder) removeTarget(target Target) bool {
	removed := false
	for _, path := range b.pathsOf(target.Name) {
		if b.removeTargetAt(path, target) {
			removed = true
		}
	}
	return removed
}

func (b *tableBuilder) clearRoutes() {
	if len(b.routes) == 0 {
		return
	}
	b.routes = make(map[string]*pathTargets)
	b.primary = make(map[string]string)
	b.targets = make(map[string]Target)
	b.dirty = true
}

func (b *tableBuilder) clearErrorTargets() {
	if len(b.errorTargets) == 0 {
		return
	}
	b.errorTargets = nil
	b.dirty = true
}

// releasePrimary is called after name lost path. When path was the primary
// path, the lexicographically smallest remaining alias is promoted.
func (b *tableBuilder) releasePrimary(name, path string) {
	if b.primary[name] != path {
		return
	}
	remaining := b.pathsOf(name)
	if len(remaining) == 0 {
		delete(b.primary, name)
		delete(b.targets, name)
		return
	}
	b.primary[name] = remaining[0]
	b.logger.Debug().Str("target", name).Str("removed", path).Str("promoted", remaining[0]).Msg("promoted route alias")
}

func (b *tableBuilder) pathsOf(name string) []string {
	var paths []string
	for path, pt := range b.routes {
		if pt.has(name) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

// Configuration is the handle a batch passed to Registry.Update mutates. All
// calls apply to one private copy of the registry's table, which is published
// when the batch returns nil. A Configuration must not be used after its
// batch has returned.
type Configuration struct {
	builder *tableBuilder
	sealed  bool
}

func (c *Configuration) usable() error {
	if c.sealed {
		return errors.NewIllegalStateError("route configuration used after its batch returned")
	}
	return nil
}

// SetRoute binds target at path with the given parent layout chain.
func (c *Configuration) SetRoute(path string, target Target, parentLayouts ...string) error {
	if err := c.usable(); err != nil {
		return err
	}
	return c.builder.setRoute(path, target, parentLayouts)
}

// RegisterTarget binds target at primary and every alias, then makes primary
// its primary path.
func (c *Configuration) RegisterTarget(target Target, primary string, aliases []string, parentLayouts ...string) error {
	if err := c.usable(); err != nil {
		return err
	}
	if err := c.builder.setRoute(primary, target, parentLayouts); err != nil {
		return err
	}
	for _, alias := range aliases {
		if err := c.builder.setRoute(alias, target, parentLayouts); err != nil {
			return err
		}
	}
	c.builder.setPrimary(primary, target)
	return nil
}

// RemoveRoute unbinds every target at path. It reports whether path was bound.
func (c *Configuration) RemoveRoute(path string) bool {
	if c.usable() != nil {
		return false
	}
	return c.builder.removePath(path)
}

// RemoveTarget unbinds target from all of its paths.
func (c *Configuration) RemoveTarget(target Target) bool {
	if c.usable() != nil {
		return false
	}
	return c.builder.removeTarget(target)
}

// RemoveTargetAt unbinds target from path only.
func (c *Configuration) RemoveTargetAt(path string, target Target) bool {
	if c.usable() != nil {
		return false
	}
	return c.builder.removeTargetAt(path, target)
}

// SetErrorTarget routes errors of the named kind to target.
func (c *Configuration) SetErrorTarget(kind string, target Target) error {
	if err := c.usable(); err != nil {
		return err
	}
	return c.builder.setErrorTarget(kind, target)
}

// Clear removes every route of this layer. Error targets are kept.
func (c *Configuration) Clear() {
	if c.usable() != nil {
		return
	}
	c.builder.clearRoutes()
}

// ClearErrorTargets removes every error target of this layer.
func (c *Configuration) ClearErrorTargets() {
	if c.usable() != nil {
		return
	}
	c.builder.clearErrorTargets()
}

// HasRoute reports whether path is bound in the batch's current state.
func (c *Configuration) HasRoute(path string) bool {
	_, ok := c.builder.routes[NormalizePath(path)]
	return ok
}
