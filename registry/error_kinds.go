/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/suparena/routestore/errors"
)

const (
	// KindNotFound covers errors.ErrNotFound and everything wrapping it.
	KindNotFound = "not-found"
	// KindInternal is the catch-all kind; it matches any error.
	KindInternal = "internal"
)

var (
	// DefaultNotFoundTarget renders unresolved routes when no layer binds KindNotFound.
	DefaultNotFoundTarget = Target{Name: "RouteNotFoundError"}
	// DefaultInternalTarget renders any other error when no layer has a match.
	DefaultInternalTarget = Target{Name: "InternalServerError"}
)

// errorKinds maps an error kind name to the sentinel it matches. A nil
// sentinel marks a catch-all kind.
var (
	errorKinds  = map[string]error{KindNotFound: errors.ErrNotFound, KindInternal: nil}
	errorKindMu sync.RWMutex
)

// RegisterErrorKind makes name usable with SetErrorTarget. Errors matching
// sentinel with errors.Is are routed to the kind's target. It panics if name
// is already registered, so call it from init functions.
func RegisterErrorKind(name string, sentinel error) {
	if name == "" {
		panic("error kinds: empty kind name")
	}
	errorKindMu.Lock()
	defer errorKindMu.Unlock()
	if _, exists := errorKinds[name]; exists {
		panic(fmt.Sprintf("error kinds: kind %q already registered", name))
	}
	errorKinds[name] = sentinel
}

// LookupErrorKind returns the sentinel registered for name.
func LookupErrorKind(name string) (sentinel error, ok bool) {
	errorKindMu.RLock()
	defer errorKindMu.RUnlock()
	sentinel, ok = errorKinds[name]
	return sentinel, ok
}

// ErrorKinds returns the registered kind names, sorted.
func ErrorKinds() []string {
	errorKindMu.RLock()
	defer errorKindMu.RUnlock()
	names := make([]string, 0, len(errorKinds))
	for name := range errorKinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ErrorTargetEntry binds an error kind to the target that renders it.
type ErrorTargetEntry struct {
	Kind   string
	Target Target
}

type errorTarget struct {
	kind     string
	sentinel error
	target   Target
}

func (b *tableBuilder) setErrorTarget(kind string, target Target) error {
	if err := target.validate(); err != nil {
		return err
	}
	sentinel, ok := LookupErrorKind(kind)
	if !ok {
		return errors.NewInvalidConfigurationError(target.Name, "unknown error kind %q", kind)
	}
	for _, et := range b.errorTargets {
		if et.kind != kind {
			continue
		}
		if et.target == target {
			return nil
		}
		return errors.NewInvalidConfigurationError(target.Name,
			"error kind %q is already handled by %q", kind, et.target.Name)
	}
	b.logger.Debug().Str("kind", kind).Str("target", target.Name).Msg("registering error target")
	b.errorTargets = append(b.errorTargets, errorTarget{kind: kind, sentinel: sentinel, target: target})
	b.dirty = true
	return nil
}

// ErrorTargets lists this layer's error targets in registration order.
func (t *RouteTable) ErrorTargets() []ErrorTargetEntry {
	entries := make([]ErrorTargetEntry, 0, len(t.errorTargets))
	for _, et := range t.errorTargets {
		entries = append(entries, ErrorTargetEntry{Kind: et.kind, Target: et.target})
	}
	return entries
}

// errorTargetFor matches err against this layer only: the first sentinel
// identical to an error in err's tree, then the first errors.Is match, then a
// catch-all kind.
func (t *RouteTable) errorTargetFor(err error) (ErrorTargetEntry, bool) {
	if len(t.errorTargets) == 0 {
		return ErrorTargetEntry{}, false
	}
	var exact *errorTarget
	walkErrors(err, func(e error) bool {
		for i := range t.errorTargets {
			if s := t.errorTargets[i].sentinel; s != nil && sameError(s, e) {
				exact = &t.errorTargets[i]
				return false
			}
		}
		return true
	})
	if exact != nil {
		return ErrorTargetEntry{Kind: exact.kind, Target: exact.target}, true
	}
	for _, et := range t.errorTargets {
		if et.sentinel != nil && stderrors.Is(err, et.sentinel) {
			return ErrorTargetEntry{Kind: et.kind, Target: et.target}, true
		}
	}
	for _, et := range t.errorTargets {
		if et.sentinel == nil {
			return ErrorTargetEntry{Kind: et.kind, Target: et.target}, true
		}
	}
	return ErrorTargetEntry{}, false
}

func defaultErrorTarget(err error) ErrorTargetEntry {
	if stderrors.Is(err, errors.ErrNotFound) {
		return ErrorTargetEntry{Kind: KindNotFound, Target: DefaultNotFoundTarget}
	}
	return ErrorTargetEntry{Kind: KindInternal, Target: DefaultInternalTarget}
}

// walkErrors visits err and everything it wraps depth first until visit
// returns false.
func walkErrors(err error, visit func(error) bool) bool {
	if err == nil {
		return true
	}
	if !visit(err) {
		return false
	}
	switch x := err.(type) {
	case interface{ Unwrap() error }:
		return walkErrors(x.Unwrap(), visit)
	case interface{ Unwrap() []error }:
		for _, inner := range x.Unwrap() {
			if !walkErrors(inner, visit) {
				return false
			}
		}
	}
	return true
}

func sameError(a, b error) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	return ta == tb && ta.Comparable() && a == b
}
