/*
Package storagemodels defines the persisted data structures of routestore.

SessionRoutes:
The snapshot of a session overlay registry. Only the overlay's own routes and
error targets are stored:

	snap := overlay.Snapshot()
	snap.Application = "admin"
	err := store.Put(ctx, snap)

SessionRoutesIndexMap lays the snapshot out for single-table DynamoDB designs:

	PK  = SESSION#{SessionID}
	SK  = ROUTES
	PK1 = APP#{Application}
	SK1 = SESSION#{SessionID}

StreamResult and StreamOptions:
Results and configuration of streaming list operations:

	results := store.Stream(ctx, params,
	    WithBufferSize(100),
	    WithPageSize(25),
	    WithMaxRetries(3),
	)
*/
package storagemodels
