/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/suparena/routestore/errors"
	"github.com/suparena/routestore/registry"
)

// RouteDecl declares one navigation target with its primary path and aliases.
type RouteDecl struct {
	Path      string   `yaml:"path"`
	Target    string   `yaml:"target"`
	Parameter string   `yaml:"parameter,omitempty"`
	Aliases   []string `yaml:"aliases,omitempty"`
	Layouts   []string `yaml:"layouts,omitempty"`
}

func (d RouteDecl) target() (registry.Target, error) {
	if d.Target == "" {
		return registry.Target{}, errors.NewValidationError("target", "must not be empty")
	}
	kind, err := registry.ParseParameterKind(d.Parameter)
	if err != nil {
		return registry.Target{}, err
	}
	return registry.Target{Name: d.Target, Parameter: kind}, nil
}

// ErrorTargetDecl routes an error kind to a target.
type ErrorTargetDecl struct {
	Kind      string `yaml:"kind"`
	Target    string `yaml:"target"`
	Parameter string `yaml:"parameter,omitempty"`
}

func (d ErrorTargetDecl) target() (registry.Target, error) {
	if d.Kind == "" {
		return registry.Target{}, errors.NewValidationError("kind", "must not be empty")
	}
	return RouteDecl{Target: d.Target, Parameter: d.Parameter}.target()
}

// RoutesFile is the layout of a standalone routes file.
type RoutesFile struct {
	Routes       []RouteDecl       `yaml:"routes"`
	ErrorTargets []ErrorTargetDecl `yaml:"errorTargets,omitempty"`
}

// LoadRoutes reads a routes file.
func LoadRoutes(path string) (*RoutesFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routes %s: %w", path, err)
	}
	var rf RoutesFile
	if err := yaml.Unmarshal(content, &rf); err != nil {
		return nil, fmt.Errorf("parse routes %s: %w", path, err)
	}
	return &rf, nil
}

// Apply registers every declaration on c. It stops at the first error, which
// makes the enclosing batch commit nothing.
func (rf *RoutesFile) Apply(c *registry.Configuration) error {
	for i, decl := range rf.Routes {
		target, err := decl.target()
		if err != nil {
			return fmt.Errorf("routes[%d]: %w", i, err)
		}
		if err := c.RegisterTarget(target, decl.Path, decl.Aliases, decl.Layouts...); err != nil {
			return fmt.Errorf("routes[%d]: %w", i, err)
		}
	}
	for i, decl := range rf.ErrorTargets {
		target, err := decl.target()
		if err != nil {
			return fmt.Errorf("errorTargets[%d]: %w", i, err)
		}
		if err := c.SetErrorTarget(decl.Kind, target); err != nil {
			return fmt.Errorf("errorTargets[%d]: %w", i, err)
		}
	}
	return nil
}

// Replace swaps reg's own routes and error targets for the declared ones in
// one batch, so listeners see a single event with the net change.
func (rf *RoutesFile) Replace(reg *registry.Registry) error {
	return reg.Update(func(c *registry.Configuration) error {
		c.Clear()
		c.ClearErrorTargets()
		return rf.Apply(c)
	})
}

// LoadRoutes returns the inline routes of c merged with those of its
// routes file, if one is named.
func (c *Config) LoadRoutes() (*RoutesFile, error) {
	rf := &RoutesFile{
		Routes:       append([]RouteDecl(nil), c.Routes...),
		ErrorTargets: append([]ErrorTargetDecl(nil), c.ErrorTargets...),
	}
	if c.RoutesFile == "" {
		return rf, nil
	}
	external, err := LoadRoutes(c.RoutesFile)
	if err != nil {
		return nil, err
	}
	rf.Routes = append(rf.Routes, external.Routes...)
	rf.ErrorTargets = append(rf.ErrorTargets, external.ErrorTargets...)
	return rf, nil
}

// Apply loads c's routes into reg in one batch.
func (c *Config) Apply(reg *registry.Registry) error {
	rf, err := c.LoadRoutes()
	if err != nil {
		return err
	}
	return rf.Replace(reg)
}
