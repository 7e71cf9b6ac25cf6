/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package routestore

import (
	"github.com/rs/zerolog"

	"github.com/suparena/routestore/registry"
)

// Context is the application-level object that owns the shared route
// registry and any other application-scoped attributes. Pass it by handle;
// there is no process-wide default.
type Context struct {
	name   string
	logger zerolog.Logger
	attrs  *Attributes
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithLogger sets the logger handed to registries created for the context
// and its sessions.
func WithLogger(logger zerolog.Logger) ContextOption {
	return func(c *Context) {
		c.logger = logger
	}
}

// NewContext creates the context of the application called name.
func NewContext(name string, opts ...ContextOption) *Context {
	c := &Context{
		name:   name,
		logger: zerolog.Nop(),
		attrs:  NewAttributes(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("application", name).Logger()
	return c
}

// Name returns the application name.
func (c *Context) Name() string { return c.name }

// Logger returns the context's logger.
func (c *Context) Logger() zerolog.Logger { return c.logger }

// Attributes returns the application-scoped attribute set.
func (c *Context) Attributes() *Attributes { return c.attrs }

type applicationRegistry struct {
	reg *registry.Registry
}

// ApplicationRegistry returns the context's route registry, creating it on
// first use.
func ApplicationRegistry(c *Context) *registry.Registry {
	v, _ := ComputeAttributeIfAbsent(c.attrs, func() (applicationRegistry, error) {
		reg := registry.New(registry.WithLogger(c.logger))
		c.logger.Debug().Str("registry", reg.ID()).Msg("application registry created")
		return applicationRegistry{reg: reg}, nil
	})
	return v.reg
}
