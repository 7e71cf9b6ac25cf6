/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package logging builds the zerolog loggers used across routestore.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/suparena/routestore/errors"
)

// ParseLevel parses a zerolog level name. The empty string is info.
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.InfoLevel, errors.NewValidationError("logLevel", err.Error())
	}
	return l, nil
}

// New returns a JSON logger writing to w. An unknown level falls back to info.
func New(level string, w io.Writer) zerolog.Logger {
	l, _ := ParseLevel(level)
	return zerolog.New(w).Level(l).With().Timestamp().Logger()
}

// Console returns a human readable logger for command line tools.
func Console(level string, w io.Writer) zerolog.Logger {
	l, _ := ParseLevel(level)
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(l).With().Timestamp().Logger()
}
