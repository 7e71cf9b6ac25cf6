/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/routestore/errors"
	"github.com/suparena/routestore/registry"
)

const sampleConfig = `
application: shop
logLevel: debug
sessions:
  idleTimeout: 10m
  cleanupInterval: 1m
store:
  kind: file
  dir: /var/lib/routestore
routes:
  - path: home
    target: Home
    aliases: [info, version]
  - path: news
    target: Article
    parameter: required
    layouts: [MainLayout]
errorTargets:
  - kind: not-found
    target: Missing
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), "routestore.yaml", sampleConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "shop", cfg.Application)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10*time.Minute, cfg.Sessions.IdleTimeout)
	assert.Equal(t, StoreFile, cfg.Store.Kind)
	require.Len(t, cfg.Routes, 2)
	assert.Equal(t, []string{"info", "version"}, cfg.Routes[0].Aliases)
	assert.Equal(t, "required", cfg.Routes[1].Parameter)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.Sessions.IdleTimeout)
	assert.Equal(t, StoreNone, cfg.Store.Kind)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "routestore.yaml", sampleConfig)
	t.Setenv("ROUTESTORE_APPLICATION", "admin")
	t.Setenv("ROUTESTORE_STORE_DIR", "/tmp/sessions")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "admin", cfg.Application)
	assert.Equal(t, "/tmp/sessions", cfg.Store.Dir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty application", func(c *Config) { c.Application = "" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"no idle timeout", func(c *Config) { c.Sessions.IdleTimeout = 0 }},
		{"file store without dir", func(c *Config) { c.Store.Kind = StoreFile }},
		{"dynamodb without table", func(c *Config) { c.Store.Kind = StoreDynamoDB; c.Store.AWS.Region = "us-east-1" }},
		{"unknown store", func(c *Config) { c.Store.Kind = "redis" }},
		{"bad parameter", func(c *Config) {
			c.Routes = []RouteDecl{{Path: "a", Target: "A", Parameter: "sometimes"}}
		}},
		{"error target without kind", func(c *Config) {
			c.ErrorTargets = []ErrorTargetDecl{{Target: "Oops"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.True(t, errors.IsValidationError(cfg.Validate()))
		})
	}
}

func TestApplyRegistersRoutesInOneBatch(t *testing.T) {
	path := writeFile(t, t.TempDir(), "routestore.yaml", sampleConfig)
	cfg, err := Load(path)
	require.NoError(t, err)

	reg := registry.New()
	events := 0
	reg.AddRoutesChangeListener(func(registry.RoutesChangedEvent) { events++ })

	require.NoError(t, cfg.Apply(reg))
	assert.Equal(t, 1, events)

	target, ok := reg.NavigationTarget("info")
	require.True(t, ok)
	assert.Equal(t, "Home", target.Name)

	url, ok := reg.TargetURL(registry.Target{Name: "Home"})
	require.True(t, ok)
	assert.Equal(t, "home", url)

	assert.Equal(t, []string{"MainLayout"}, reg.RouteLayouts("news", registry.Target{Name: "Article", Parameter: registry.RequiredParameter}))

	entry, custom := reg.ErrorNavigationTarget(errors.ErrNotFound)
	assert.True(t, custom)
	assert.Equal(t, "Missing", entry.Target.Name)
}

func TestApplyConflictCommitsNothing(t *testing.T) {
	cfg := Default()
	cfg.Routes = []RouteDecl{
		{Path: "a", Target: "A"},
		{Path: "a", Target: "B"},
	}

	reg := registry.New()
	err := cfg.Apply(reg)
	require.Error(t, err)
	assert.True(t, errors.IsNamingConflict(err))
	assert.False(t, reg.HasRoutes())
}

func TestRoutesFileIsMergedWithInlineRoutes(t *testing.T) {
	dir := t.TempDir()
	routes := writeFile(t, dir, "routes.yaml", "routes:\n  - path: about\n    target: About\n")

	cfg := Default()
	cfg.RoutesFile = routes
	cfg.Routes = []RouteDecl{{Path: "", Target: "Root"}}

	reg := registry.New()
	require.NoError(t, cfg.Apply(reg))
	assert.True(t, reg.IsPathRegistered(""))
	assert.True(t, reg.IsPathRegistered("about"))
}
