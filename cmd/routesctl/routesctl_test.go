/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
application: shop
logLevel: error
routes:
  - path: home
    target: Home
    aliases: [info]
  - path: news
    target: Article
    parameter: required
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routestore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", path, "--log-json"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRoutesCommand(t *testing.T) {
	out, err := run(t, "routes")
	require.NoError(t, err)

	var report routesReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "shop", report.Application)
	require.Len(t, report.Routes, 2)
	assert.Equal(t, "home", report.Routes[0].Path)
	assert.Equal(t, "info", report.Routes[0].Aliases[0].Path)
}

func TestResolveCommand(t *testing.T) {
	out, err := run(t, "resolve", "news", "42")
	require.NoError(t, err)
	assert.Equal(t, "Article{required}", strings.TrimSpace(out))

	_, err = run(t, "resolve", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RouteNotFoundError")
}

func TestURLCommand(t *testing.T) {
	out, err := run(t, "url", "Article", "a b")
	require.NoError(t, err)
	assert.Equal(t, "/news/a%20b", strings.TrimSpace(out))
}
