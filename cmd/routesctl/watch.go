/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/suparena/routestore/config"
	"github.com/suparena/routestore/errors"
	"github.com/suparena/routestore/registry"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the routes file on change and log every route change",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		if a.cfg.RoutesFile == "" {
			return errors.NewValidationError("routesFile", "watch needs a routes file")
		}

		sub := a.reg.AddRoutesChangeListener(func(ev registry.RoutesChangedEvent) {
			for _, e := range ev.Removed {
				a.logger.Info().Str("path", e.Path).Str("target", e.Target.Name).Bool("alias", e.Alias).Msg("route removed")
			}
			for _, e := range ev.Added {
				a.logger.Info().Str("path", e.Path).Str("target", e.Target.Name).Bool("alias", e.Alias).Msg("route added")
			}
		})
		defer sub.Remove()

		w, err := config.NewWatcher(a.cfg, a.reg, config.WithWatcherLogger(a.logger))
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()
		a.logger.Info().Msg("stopping")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
