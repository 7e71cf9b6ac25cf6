/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/spf13/cobra"

	"github.com/suparena/routestore/errors"
	"github.com/suparena/routestore/registry"
)

type aliasJSON struct {
	Path    string   `json:"path"`
	Layouts []string `json:"layouts,omitempty"`
}

type routeJSON struct {
	Path      string      `json:"path"`
	Target    string      `json:"target"`
	Parameter string      `json:"parameter"`
	Layouts   []string    `json:"layouts,omitempty"`
	Aliases   []aliasJSON `json:"aliases,omitempty"`
}

type routesReport struct {
	Application  string            `json:"application"`
	GeneratedAt  strfmt.DateTime   `json:"generatedAt"`
	Routes       []routeJSON       `json:"routes"`
	ErrorTargets map[string]string `json:"errorTargets,omitempty"`
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the application's routes as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		report := routesReport{
			Application: a.cfg.Application,
			GeneratedAt: strfmt.DateTime(time.Now().UTC()),
			Routes:      []routeJSON{},
		}
		for _, rd := range a.reg.RegisteredRoutes() {
			r := routeJSON{
				Path:      rd.Path,
				Target:    rd.Target.Name,
				Parameter: rd.Target.Parameter.String(),
				Layouts:   rd.ParentLayouts,
			}
			for _, alias := range rd.Aliases {
				r.Aliases = append(r.Aliases, aliasJSON{Path: alias.Path, Layouts: alias.ParentLayouts})
			}
			report.Routes = append(report.Routes, r)
		}
		for _, et := range a.reg.Table().ErrorTargets() {
			if report.ErrorTargets == nil {
				report.ErrorTargets = make(map[string]string)
			}
			report.ErrorTargets[et.Kind] = et.Target.Name
		}
		return writeJSON(cmd.OutOrStdout(), report)
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <path> [segment...]",
	Short: "Print the target a path resolves to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		target, ok := a.reg.NavigationTarget(args[0], args[1:]...)
		if !ok {
			entry, _ := a.reg.ErrorNavigationTarget(errors.NewNotFoundError("route", registry.NormalizePath(args[0])))
			return fmt.Errorf("no route for %q (would render %s)", args[0], entry.Target.Name)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), target)
		return err
	},
}

var urlCmd = &cobra.Command{
	Use:   "url <target> [segment...]",
	Short: "Build the URL of a navigation target",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		u, err := a.reg.URL(registry.Target{Name: args[0]}, args[1:]...)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "/"+u)
		return err
	},
}

func init() {
	rootCmd.AddCommand(routesCmd, resolveCmd, urlCmd)
}
