/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
)

// DataStore persists entities of type T.
type DataStore[T any] interface {
	// GetOne returns the entity stored under key or an error matching
	// errors.ErrNotFound.
	GetOne(ctx context.Context, key string) (*T, error)

	// Put stores entity. An entity implementing Versioned is rejected with a
	// condition-failed error when the stored copy has a newer version.
	Put(ctx context.Context, entity T) error

	// List returns every entity in partition.
	List(ctx context.Context, partition string) ([]T, error)

	Delete(ctx context.Context, key string) error
}

// Versioned entities get optimistic concurrency from Put.
type Versioned interface {
	StoreVersion() int64
}

// VersionOf returns the version of entity, or 0 when it is not Versioned.
func VersionOf(entity any) int64 {
	if v, ok := entity.(Versioned); ok {
		return v.StoreVersion()
	}
	return 0
}
