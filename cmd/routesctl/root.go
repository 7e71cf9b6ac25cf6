/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/suparena/routestore"
	"github.com/suparena/routestore/config"
	"github.com/suparena/routestore/logging"
	"github.com/suparena/routestore/registry"
)

var (
	cfgFile string
	logJSON bool
)

var rootCmd = &cobra.Command{
	Use:           "routesctl",
	Short:         "Inspect and serve routestore route tables",
	Version:       routestore.Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "routestore.yaml", "config file")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON instead of console text")
}

// app is the application loaded from the config file.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	ctx    *routestore.Context
	reg    *registry.Registry
}

func loadApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	var logger zerolog.Logger
	if logJSON {
		logger = logging.New(cfg.LogLevel, os.Stderr)
	} else {
		logger = logging.Console(cfg.LogLevel, os.Stderr)
	}

	ctx := routestore.NewContext(cfg.Application, routestore.WithLogger(logger))
	reg := routestore.ApplicationRegistry(ctx)
	if err := cfg.Apply(reg); err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, ctx: ctx, reg: reg}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
