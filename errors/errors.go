/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a route, target or stored snapshot is not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when attempting to create something that already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConditionFailed is returned when a conditional write fails
	ErrConditionFailed = errors.New("condition check failed")

	// ErrNoIndexMap is returned when no index map is found for a persisted type
	ErrNoIndexMap = errors.New("no index map found for type")

	// ErrNamingConflict is returned when two navigation targets compete for one path
	ErrNamingConflict = errors.New("naming conflict")

	// ErrInvalidConfiguration is returned when a target is registered inconsistently
	ErrInvalidConfiguration = errors.New("invalid route configuration")

	// ErrIllegalState is returned on caller bugs such as cross-session registry attachment
	ErrIllegalState = errors.New("illegal state")
)

// ConflictReason tells which slot rule a NamingConflictError violated.
type ConflictReason int

const (
	// ConflictSameRoute: two parameterless targets on one path.
	ConflictSameRoute ConflictReason = iota
	// ConflictSameParameterRoute: two targets with the same parameter kind on one path.
	ConflictSameParameterRoute
	// ConflictOptionalShadowed: an exact target would hide an optional-parameter target.
	ConflictOptionalShadowed
)

// NotFoundError represents an error when something is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when something already exists
type AlreadyExistsError struct {
	Type string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConditionFailedError represents a failed conditional operation
type ConditionFailedError struct {
	Operation string
	Condition string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition check failed for %s operation: %s", e.Operation, e.Condition)
}

func (e *ConditionFailedError) Is(target error) bool {
	return target == ErrConditionFailed
}

// NamingConflictError is reported to the caller that lost a race for a path.
// Existing is the target already bound, Rejected the one that was refused.
type NamingConflictError struct {
	Path     string
	Existing string
	Rejected string
	Reason   ConflictReason
	// Optional names the optional-parameter target for ConflictOptionalShadowed.
	Optional string
}

func (e *NamingConflictError) Error() string {
	switch e.Reason {
	case ConflictSameParameterRoute:
		return fmt.Sprintf("navigation targets must have unique routes, found navigation targets %q and %q with parameter have the same route %q",
			e.Existing, e.Rejected, e.Path)
	case ConflictOptionalShadowed:
		return fmt.Sprintf("navigation targets %q and %q have the same path %q and %q has an optional parameter that will never be used as optional",
			e.Existing, e.Rejected, e.Path, e.Optional)
	default:
		return fmt.Sprintf("navigation targets must have unique routes, found navigation targets %q and %q with the same route %q",
			e.Existing, e.Rejected, e.Path)
	}
}

func (e *NamingConflictError) Is(target error) bool {
	return target == ErrNamingConflict
}

// InvalidConfigurationError is a setup-time error for a single target's registration.
type InvalidConfigurationError struct {
	Target  string
	Message string
}

func (e *InvalidConfigurationError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("invalid route configuration for %q: %s", e.Target, e.Message)
	}
	return fmt.Sprintf("invalid route configuration: %s", e.Message)
}

func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// IllegalStateError signals a programming error; callers must not retry.
type IllegalStateError struct {
	Message string
}

func (e *IllegalStateError) Error() string {
	return "illegal state: " + e.Message
}

func (e *IllegalStateError) Is(target error) bool {
	return target == ErrIllegalState
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(kind, key string) error {
	return &NotFoundError{Type: kind, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(kind, key string) error {
	return &AlreadyExistsError{Type: kind, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewConditionFailedError creates a new ConditionFailedError
func NewConditionFailedError(operation, condition string) error {
	return &ConditionFailedError{Operation: operation, Condition: condition}
}

// NewNamingConflictError creates a new NamingConflictError
func NewNamingConflictError(path, existing, rejected string, reason ConflictReason) error {
	return &NamingConflictError{Path: path, Existing: existing, Rejected: rejected, Reason: reason}
}

// NewOptionalShadowedError creates a NamingConflictError for an exact target and an
// optional-parameter target sharing a path.
func NewOptionalShadowedError(path, existing, rejected, optional string) error {
	return &NamingConflictError{Path: path, Existing: existing, Rejected: rejected, Reason: ConflictOptionalShadowed, Optional: optional}
}

// NewInvalidConfigurationError creates a new InvalidConfigurationError
func NewInvalidConfigurationError(target, format string, args ...any) error {
	return &InvalidConfigurationError{Target: target, Message: fmt.Sprintf(format, args...)}
}

// NewIllegalStateError creates a new IllegalStateError
func NewIllegalStateError(format string, args ...any) error {
	return &IllegalStateError{Message: fmt.Sprintf(format, args...)}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConditionFailed checks if an error is a condition failed error
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}

// IsNamingConflict checks if an error is a naming conflict
func IsNamingConflict(err error) bool {
	return errors.Is(err, ErrNamingConflict)
}

// IsInvalidConfiguration checks if an error is an invalid configuration error
func IsInvalidConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

// IsIllegalState checks if an error is an illegal state error
func IsIllegalState(err error) bool {
	return errors.Is(err, ErrIllegalState)
}
