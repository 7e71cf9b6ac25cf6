/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"reflect"
	"sync"
)

// Index maps associate a Go type with the key templates of its items, for
// example {"PK": "SESSION#{SessionID}", "SK": "ROUTES"}.

var (
	indexMaps  = make(map[reflect.Type]map[string]string)
	indexMapMu sync.RWMutex
)

// RegisterIndexMap associates type T with idxMap (PK, SK, PK1, SK1, ...).
func RegisterIndexMap[T any](idxMap map[string]string) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	indexMapMu.Lock()
	defer indexMapMu.Unlock()
	indexMaps[t] = idxMap
}

// GetIndexMap retrieves the index map for type T, if any.
func GetIndexMap[T any]() (map[string]string, bool) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	indexMapMu.RLock()
	defer indexMapMu.RUnlock()
	m, ok := indexMaps[t]
	return m, ok
}
