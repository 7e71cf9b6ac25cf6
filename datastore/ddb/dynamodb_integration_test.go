//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

func liveStore(t *testing.T) *DynamodbDataStore[testSnapshot] {
	t.Helper()
	if err := godotenv.Load(); err != nil {
		t.Log("No .env file found, proceeding with environment variables")
	}
	table := os.Getenv("AWS_DDB_TABLE")
	if table == "" {
		t.Skip("AWS_DDB_TABLE not set")
	}
	store, err := NewDynamodbDataStore[testSnapshot](context.Background(),
		os.Getenv("AWS_ACCESS_KEY"), os.Getenv("AWS_SECRET_KEY"), os.Getenv("AWS_REGION"), table)
	require.NoError(t, err)
	return store
}

func TestLiveSnapshotLifecycle(t *testing.T) {
	ctx := context.Background()
	store := liveStore(t)
	id := uuid.NewString()

	require.NoError(t, store.Put(ctx, testSnapshot{SessionID: id, Application: "integration", Version: 1}))
	t.Cleanup(func() { _ = store.Delete(ctx, id) })

	got, err := store.GetOne(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, got.SessionID)

	items, err := store.List(ctx, "integration")
	require.NoError(t, err)
	require.NotEmpty(t, items)
}
