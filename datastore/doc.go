/*
Package datastore defines the persistence interface for routestore snapshots.

	type DataStore[T any] interface {
	    GetOne(ctx context.Context, key string) (*T, error)
	    Put(ctx context.Context, entity T) error
	    List(ctx context.Context, partition string) ([]T, error)
	    Delete(ctx context.Context, key string) error
	}

A Put of an entity implementing Versioned fails with a condition-failed error
when the store already holds a newer version.

Implementations:
  - ddb: DynamoDB, single-table design with macro-expanded keys
  - cborfile: one CBOR file per entity in a local directory
  - mock: in-memory store with error injection for tests
*/
package datastore
