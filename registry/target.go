/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"slices"
	"strings"

	"github.com/suparena/routestore/errors"
)

// ParameterKind is the URL parameter capability a navigation target declares.
type ParameterKind int

const (
	// NoParameter targets only match requests without extra segments.
	NoParameter ParameterKind = iota
	// RequiredParameter targets match exactly one extra segment.
	RequiredParameter
	// OptionalParameter targets match zero or one extra segment.
	OptionalParameter
	// WildcardParameter targets match any number of extra segments.
	WildcardParameter
)

const parameterKinds = 4

func (k ParameterKind) String() string {
	switch k {
	case NoParameter:
		return "none"
	case RequiredParameter:
		return "required"
	case OptionalParameter:
		return "optional"
	case WildcardParameter:
		return "wildcard"
	default:
		return fmt.Sprintf("ParameterKind(%d)", int(k))
	}
}

func (k ParameterKind) valid() bool {
	return k >= NoParameter && k <= WildcardParameter
}

// ParseParameterKind parses the names produced by ParameterKind.String.
// The empty string is NoParameter.
func ParseParameterKind(s string) (ParameterKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return NoParameter, nil
	case "required":
		return RequiredParameter, nil
	case "optional":
		return OptionalParameter, nil
	case "wildcard":
		return WildcardParameter, nil
	}
	return NoParameter, errors.NewValidationError("parameter", fmt.Sprintf("unknown parameter kind %q", s))
}

// Target identifies a navigation target. Two targets are the same target when
// their names are equal.
type Target struct {
	Name      string
	Parameter ParameterKind
}

// AcceptsParameter reports whether the target takes URL segments after its path.
func (t Target) AcceptsParameter() bool {
	return t.Parameter != NoParameter
}

func (t Target) String() string {
	if t.Parameter == NoParameter {
		return t.Name
	}
	return t.Name + "{" + t.Parameter.String() + "}"
}

func (t Target) validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.NewInvalidConfigurationError("", "navigation target name must not be empty")
	}
	if !t.Parameter.valid() {
		return errors.NewInvalidConfigurationError(t.Name, "unknown parameter kind %d", int(t.Parameter))
	}
	return nil
}

// RouteEntry is one (path, target) binding as seen in a RouteTable.
type RouteEntry struct {
	Path          string
	Target        Target
	Alias         bool
	ParentLayouts []string
}

func (e RouteEntry) equal(o RouteEntry) bool {
	return e.Path == o.Path && e.Target == o.Target && e.Alias == o.Alias &&
		slices.Equal(e.ParentLayouts, o.ParentLayouts)
}

// AliasData describes a non-primary path of a registered target.
type AliasData struct {
	Path          string
	ParentLayouts []string
}

// RouteData groups everything registered for one target.
type RouteData struct {
	Path          string
	Target        Target
	ParentLayouts []string
	Aliases       []AliasData
}

// NormalizePath strips surrounding slashes so "/main/" and "main" name the
// same route. The root route is the empty string.
func NormalizePath(path string) string {
	return strings.Trim(strings.TrimSpace(path), "/")
}
