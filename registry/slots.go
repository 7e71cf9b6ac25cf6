/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"slices"

	"github.com/suparena/routestore/errors"
)

// pathTargets holds the targets bound to one path, at most one per parameter
// kind. A published pathTargets is never modified; with and without return
// copies.
type pathTargets struct {
	slots   [parameterKinds]*Target
	layouts [parameterKinds][]string
}

func (p *pathTargets) clone() *pathTargets {
	next := &pathTargets{}
	if p != nil {
		next.slots = p.slots
		next.layouts = p.layouts
	}
	return next
}

func (p *pathTargets) empty() bool {
	if p == nil {
		return true
	}
	for _, t := range p.slots {
		if t != nil {
			return false
		}
	}
	return true
}

func (p *pathTargets) slot(kind ParameterKind) *Target {
	if p == nil {
		return nil
	}
	return p.slots[kind]
}

// has reports whether name is bound at this path.
func (p *pathTargets) has(name string) bool {
	_, ok := p.find(name)
	return ok
}

func (p *pathTargets) find(name string) (ParameterKind, bool) {
	if p == nil {
		return NoParameter, false
	}
	for i, t := range p.slots {
		if t != nil && t.Name == name {
			return ParameterKind(i), true
		}
	}
	return NoParameter, false
}

// each visits the bound targets in slot order.
func (p *pathTargets) each(fn func(t Target, layouts []string)) {
	if p == nil {
		return
	}
	for i, t := range p.slots {
		if t != nil {
			fn(*t, p.layouts[i])
		}
	}
}

func (p *pathTargets) layoutsOf(name string) []string {
	kind, ok := p.find(name)
	if !ok {
		return nil
	}
	return p.layouts[kind]
}

// with binds t at path. Binding the target already held by the slot replaces
// its layouts; any other occupant is a naming conflict.
func (p *pathTargets) with(path string, t Target, layouts []string) (*pathTargets, error) {
	if current := p.slot(t.Parameter); current != nil && current.Name != t.Name {
		reason := errors.ConflictSameRoute
		if t.AcceptsParameter() {
			reason = errors.ConflictSameParameterRoute
		}
		return nil, errors.NewNamingConflictError(path, current.Name, t.Name, reason)
	}

	switch t.Parameter {
	case NoParameter:
		if optional := p.slot(OptionalParameter); optional != nil && optional.Name != t.Name {
			return nil, errors.NewOptionalShadowedError(path, optional.Name, t.Name, optional.Name)
		}
	case OptionalParameter:
		if exact := p.slot(NoParameter); exact != nil && exact.Name != t.Name {
			return nil, errors.NewOptionalShadowedError(path, exact.Name, t.Name, t.Name)
		}
	}

	next := p.clone()
	bound := t
	next.slots[t.Parameter] = &bound
	next.layouts[t.Parameter] = slices.Clone(layouts)
	return next, nil
}

// without returns p minus name, or p itself when name is not bound here.
func (p *pathTargets) without(name string) *pathTargets {
	kind, ok := p.find(name)
	if !ok {
		return p
	}
	next := p.clone()
	next.slots[kind] = nil
	next.layouts[kind] = nil
	return next
}

// resolve picks the target for a request carrying segments after the path.
// An exact target wins for segment-less requests; a required-parameter target
// wins for a single segment; the wildcard target takes anything left.
func (p *pathTargets) resolve(segments []string) (Target, bool) {
	var order []ParameterKind
	switch len(segments) {
	case 0:
		order = []ParameterKind{NoParameter, OptionalParameter, WildcardParameter}
	case 1:
		order = []ParameterKind{RequiredParameter, OptionalParameter, WildcardParameter}
	default:
		order = []ParameterKind{WildcardParameter}
	}
	for _, kind := range order {
		if t := p.slot(kind); t != nil {
			return *t, true
		}
	}
	return Target{}, false
}
