/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads routestore configuration from YAML, with secrets and
// deployment overrides taken from the environment or a .env file.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/routestore/errors"
	"github.com/suparena/routestore/logging"
)

// Store kinds.
const (
	StoreNone     = ""
	StoreDynamoDB = "dynamodb"
	StoreFile     = "file"
)

// Config is the configuration of one routestore application.
type Config struct {
	Application string         `yaml:"application"`
	LogLevel    string         `yaml:"logLevel"`
	Sessions    SessionsConfig `yaml:"sessions"`
	Store       StoreConfig    `yaml:"store"`

	// RoutesFile names a separate routes file, relative paths are resolved
	// against the working directory. It is watched for changes when set.
	RoutesFile   string            `yaml:"routesFile,omitempty"`
	Routes       []RouteDecl       `yaml:"routes,omitempty"`
	ErrorTargets []ErrorTargetDecl `yaml:"errorTargets,omitempty"`
}

// SessionsConfig controls session expiry.
type SessionsConfig struct {
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	CleanupInterval time.Duration `yaml:"cleanupInterval"`
}

// StoreConfig selects where passivated sessions are kept.
type StoreConfig struct {
	Kind string    `yaml:"kind"`
	Dir  string    `yaml:"dir,omitempty"`
	AWS  AWSConfig `yaml:"aws,omitempty"`
}

// AWSConfig holds DynamoDB access settings. Credentials normally come from
// the environment rather than the file.
type AWSConfig struct {
	Region    string `yaml:"region"`
	AccessKey string `yaml:"accessKey,omitempty"`
	SecretKey string `yaml:"secretKey,omitempty"`
	Table     string `yaml:"table"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Application: "default",
		LogLevel:    "info",
		Sessions: SessionsConfig{
			IdleTimeout:     30 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
	}
}

// Load reads .env from the working directory when present, then the YAML
// file at path, then applies environment overrides. An empty path loads
// defaults and environment only.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		name   string
		target *string
	}{
		{"ROUTESTORE_APPLICATION", &c.Application},
		{"ROUTESTORE_LOG_LEVEL", &c.LogLevel},
		{"ROUTESTORE_STORE_DIR", &c.Store.Dir},
		{"AWS_REGION", &c.Store.AWS.Region},
		{"AWS_ACCESS_KEY", &c.Store.AWS.AccessKey},
		{"AWS_SECRET_KEY", &c.Store.AWS.SecretKey},
		{"AWS_DDB_TABLE", &c.Store.AWS.Table},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.name); ok && v != "" {
			*o.target = v
		}
	}
}

// Validate checks the configuration without touching any registry.
func (c *Config) Validate() error {
	if c.Application == "" {
		return errors.NewValidationError("application", "must not be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Sessions.IdleTimeout <= 0 {
		return errors.NewValidationError("sessions.idleTimeout", "must be positive")
	}
	switch c.Store.Kind {
	case StoreNone:
	case StoreFile:
		if c.Store.Dir == "" {
			return errors.NewValidationError("store.dir", "required for the file store")
		}
	case StoreDynamoDB:
		if c.Store.AWS.Region == "" || c.Store.AWS.Table == "" {
			return errors.NewValidationError("store.aws", "region and table are required for the dynamodb store")
		}
	default:
		return errors.NewValidationError("store.kind", fmt.Sprintf("unknown store kind %q", c.Store.Kind))
	}
	for i, decl := range c.Routes {
		if _, err := decl.target(); err != nil {
			return fmt.Errorf("routes[%d]: %w", i, err)
		}
	}
	for i, decl := range c.ErrorTargets {
		if _, err := decl.target(); err != nil {
			return fmt.Errorf("errorTargets[%d]: %w", i, err)
		}
	}
	return nil
}
