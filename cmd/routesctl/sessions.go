/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"sort"

	"github.com/go-openapi/strfmt"
	"github.com/spf13/cobra"

	"github.com/suparena/routestore"
	"github.com/suparena/routestore/errors"
	"github.com/suparena/routestore/storagemodels"
)

type sessionJSON struct {
	SessionID    string          `json:"sessionId"`
	Version      int64           `json:"version"`
	SavedAt      strfmt.DateTime `json:"savedAt"`
	Routes       int             `json:"routes"`
	ErrorTargets int             `json:"errorTargets"`
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List passivated sessions of the application",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		store, err := routestore.OpenSnapshotStore(cmd.Context(), a.cfg.Store, a.logger)
		if err != nil {
			return err
		}
		if store == nil {
			return errors.NewValidationError("store.kind", "no session store configured")
		}

		snaps, err := store.List(cmd.Context(), a.cfg.Application)
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}
		sort.Slice(snaps, func(i, j int) bool { return snaps[i].SavedAt.Before(snaps[j].SavedAt) })

		out := make([]sessionJSON, 0, len(snaps))
		for _, s := range snaps {
			out = append(out, toSessionJSON(s))
		}
		return writeJSON(cmd.OutOrStdout(), out)
	},
}

func toSessionJSON(s storagemodels.SessionRoutes) sessionJSON {
	return sessionJSON{
		SessionID:    s.SessionID.String(),
		Version:      s.Version,
		SavedAt:      strfmt.DateTime(s.SavedAt.UTC()),
		Routes:       len(s.Routes),
		ErrorTargets: len(s.ErrorTargets),
	}
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}
