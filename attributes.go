/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package routestore

import (
	"reflect"
	"sync"
)

// Attributes holds at most one value per Go type. Context and Session use it
// for state owned by other packages, keyed by a type the owning package
// declares so that nobody else can collide with it.
type Attributes struct {
	mu     sync.RWMutex
	values map[reflect.Type]any
}

// NewAttributes creates an empty attribute set.
func NewAttributes() *Attributes {
	return &Attributes{
		values: make(map[reflect.Type]any),
	}
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// GetAttribute returns the value stored for type T.
func GetAttribute[T any](a *Attributes) (T, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	v, ok := a.values[typeKey[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// SetAttribute stores value as the attribute of type T.
func SetAttribute[T any](a *Attributes, value T) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.values[typeKey[T]()] = value
}

// ReplaceAttribute stores value as the attribute of type T and returns the
// value it replaced, if any.
func ReplaceAttribute[T any](a *Attributes, value T) (T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := typeKey[T]()
	old, ok := a.values[key]
	a.values[key] = value
	if !ok {
		var zero T
		return zero, false
	}
	return old.(T), true
}

// ComputeAttributeIfAbsent returns the attribute of type T, storing the result
// of compute first when there is none. Concurrent callers share one computed
// value. compute runs with the set locked and must not access it; a compute
// error is returned and nothing is stored.
func ComputeAttributeIfAbsent[T any](a *Attributes, compute func() (T, error)) (T, error) {
	key := typeKey[T]()

	a.mu.RLock()
	v, ok := a.values[key]
	a.mu.RUnlock()
	if ok {
		return v.(T), nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if v, ok := a.values[key]; ok {
		return v.(T), nil
	}
	value, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	a.values[key] = value
	return value, nil
}

// RemoveAttribute deletes and returns the attribute of type T.
func RemoveAttribute[T any](a *Attributes) (T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := typeKey[T]()
	v, ok := a.values[key]
	if !ok {
		var zero T
		return zero, false
	}
	delete(a.values, key)
	return v.(T), true
}

// Len returns the number of stored attributes.
func (a *Attributes) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.values)
}
