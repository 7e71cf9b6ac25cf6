/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/routestore/storagemodels"
)

// Snapshot captures this layer's own routes and error targets. The parent,
// listeners and lock are not part of it.
func (r *Registry) Snapshot() storagemodels.SessionRoutes {
	own := r.table.Load()
	snap := storagemodels.SessionRoutes{
		SessionID: strfmt.UUID(r.owner),
		Version:   r.version.Load(),
		SavedAt:   time.Now().UTC(),
		Routes:    make([]storagemodels.RouteRecord, 0, own.Len()),
	}
	for _, e := range own.Entries() {
		snap.Routes = append(snap.Routes, storagemodels.RouteRecord{
			Path:          e.Path,
			Target:        e.Target.Name,
			Parameter:     parameterName(e.Target.Parameter),
			Primary:       !e.Alias,
			ParentLayouts: e.ParentLayouts,
		})
	}
	for _, et := range own.ErrorTargets() {
		snap.ErrorTargets = append(snap.ErrorTargets, storagemodels.ErrorTargetRecord{
			Kind:      et.Kind,
			Target:    et.Target.Name,
			Parameter: parameterName(et.Target.Parameter),
		})
	}
	return snap
}

func parameterName(k ParameterKind) string {
	if k == NoParameter {
		return ""
	}
	return k.String()
}

// Restore rebuilds an overlay from a snapshot. The result has no parent: it
// rejects writes and serves its own routes only until Rehydrate binds it to
// the live application registry.
func Restore(snap storagemodels.SessionRoutes, opts ...Option) (*Registry, error) {
	r := New(opts...)
	r.owner = string(snap.SessionID)

	b := emptyTable.edit(r.logger)
	for _, rec := range snap.Routes {
		target, err := recordTarget(rec.Target, rec.Parameter)
		if err != nil {
			return nil, err
		}
		if err := b.setRoute(rec.Path, target, rec.ParentLayouts); err != nil {
			return nil, fmt.Errorf("restoring route %q: %w", rec.Path, err)
		}
	}
	for _, rec := range snap.Routes {
		if rec.Primary {
			target, _ := recordTarget(rec.Target, rec.Parameter)
			b.setPrimary(rec.Path, target)
		}
	}
	for _, rec := range snap.ErrorTargets {
		target, err := recordTarget(rec.Target, rec.Parameter)
		if err != nil {
			return nil, err
		}
		if err := b.setErrorTarget(rec.Kind, target); err != nil {
			return nil, fmt.Errorf("restoring error target %q: %w", rec.Kind, err)
		}
	}

	r.table.Store(b.build())
	r.version.Store(snap.Version)
	r.detached.Store(true)
	r.logger.Debug().Str("owner", r.owner).Int("routes", len(snap.Routes)).Msg("registry restored")
	return r, nil
}

func recordTarget(name, parameter string) (Target, error) {
	kind, err := ParseParameterKind(parameter)
	if err != nil {
		return Target{}, err
	}
	return Target{Name: name, Parameter: kind}, nil
}
