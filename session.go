/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package routestore

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/suparena/routestore/errors"
	"github.com/suparena/routestore/registry"
)

// Session is the state of one user session within an application Context.
type Session struct {
	id     string
	app    *Context
	attrs  *Attributes
	logger zerolog.Logger
}

// NewSession creates a session of app. An empty id generates a random one.
func NewSession(app *Context, id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		id:     id,
		app:    app,
		attrs:  NewAttributes(),
		logger: app.logger.With().Str("session", id).Logger(),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Context returns the application the session belongs to.
func (s *Session) Context() *Context { return s.app }

// Attributes returns the session-scoped attribute set.
func (s *Session) Attributes() *Attributes { return s.attrs }

type sessionRegistry struct {
	reg *registry.Registry
}

// SessionRegistry returns the session's overlay over the application
// registry, creating it on first use.
func SessionRegistry(s *Session) (*registry.Registry, error) {
	v, err := ComputeAttributeIfAbsent(s.attrs, func() (sessionRegistry, error) {
		reg := registry.NewOverlay(ApplicationRegistry(s.app), s.id, registry.WithLogger(s.logger))
		s.logger.Debug().Str("registry", reg.ID()).Msg("session registry created")
		return sessionRegistry{reg: reg}, nil
	})
	if err != nil {
		return nil, err
	}
	if owner := v.reg.Owner(); owner != s.id {
		return nil, errors.NewIllegalStateError("session %q holds the route registry of session %q", s.id, owner)
	}
	return v.reg, nil
}

// SetSessionRegistry installs reg as the session's overlay. reg must have
// been created for this session and be layered over the application
// registry of the session's Context. An overlay it replaces is closed.
func SetSessionRegistry(s *Session, reg *registry.Registry) error {
	if reg == nil {
		return errors.NewIllegalStateError("nil route registry for session %q", s.id)
	}
	if owner := reg.Owner(); owner != s.id {
		return errors.NewIllegalStateError("route registry of session %q cannot be attached to session %q", owner, s.id)
	}
	if app := ApplicationRegistry(s.app); reg.Parent() != app {
		return errors.NewIllegalStateError("route registry of session %q is not layered over the registry of application %q", s.id, s.app.Name())
	}
	if old, ok := ReplaceAttribute(s.attrs, sessionRegistry{reg: reg}); ok && old.reg != reg {
		old.reg.Close()
		s.logger.Debug().Str("registry", old.reg.ID()).Msg("replaced session registry closed")
	}
	return nil
}

// SessionRegistryExists reports whether the session has created its overlay.
func SessionRegistryExists(s *Session) bool {
	_, ok := GetAttribute[sessionRegistry](s.attrs)
	return ok
}

// close detaches the session's overlay from the application registry.
func (s *Session) close() {
	if v, ok := RemoveAttribute[sessionRegistry](s.attrs); ok {
		v.reg.Close()
	}
}
