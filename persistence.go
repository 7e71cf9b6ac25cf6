/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package routestore

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/suparena/routestore/config"
	"github.com/suparena/routestore/datastore"
	"github.com/suparena/routestore/datastore/cborfile"
	"github.com/suparena/routestore/datastore/ddb"
	"github.com/suparena/routestore/storagemodels"
)

func init() {
	ddb.RegisterIndexMap[storagemodels.SessionRoutes](storagemodels.SessionRoutesIndexMap)
}

// SnapshotStore persists passivated session overlays.
type SnapshotStore = datastore.DataStore[storagemodels.SessionRoutes]

// NewDynamoDBSnapshotStore stores snapshots in a DynamoDB table laid out by
// storagemodels.SessionRoutesIndexMap.
func NewDynamoDBSnapshotStore(ctx context.Context, accessKey, secretKey, region, table string, logger zerolog.Logger) (SnapshotStore, error) {
	store, err := ddb.NewDynamodbDataStore[storagemodels.SessionRoutes](ctx, accessKey, secretKey, region, table, ddb.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewFileSnapshotStore stores snapshots as CBOR files under dir.
func NewFileSnapshotStore(dir string, logger zerolog.Logger) (SnapshotStore, error) {
	store, err := cborfile.New(dir,
		func(s storagemodels.SessionRoutes) string { return string(s.SessionID) },
		func(s storagemodels.SessionRoutes) string { return s.Application },
		cborfile.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// OpenSnapshotStore builds the store selected by cfg. It returns a nil store
// when cfg selects none.
func OpenSnapshotStore(ctx context.Context, cfg config.StoreConfig, logger zerolog.Logger) (SnapshotStore, error) {
	switch cfg.Kind {
	case config.StoreDynamoDB:
		return NewDynamoDBSnapshotStore(ctx, cfg.AWS.AccessKey, cfg.AWS.SecretKey, cfg.AWS.Region, cfg.AWS.Table, logger)
	case config.StoreFile:
		return NewFileSnapshotStore(cfg.Dir, logger)
	default:
		return nil, nil
	}
}
