/*
Package ddb provides a DynamoDB implementation of the DataStore interface.

The DynamodbDataStore supports:
  - Single-table design with macro-expanded keys
  - Listing a partition through a global secondary index
  - Paged streaming with retries for throttled queries
  - Optimistic concurrency for versioned entities

Macro Expansion:
Keys are built from the index map registered for the stored type:

	ddb.RegisterIndexMap[storagemodels.SessionRoutes](map[string]string{
	    "PK":  "SESSION#{SessionID}", // Becomes "SESSION#5f0c..."
	    "SK":  "ROUTES",              // Static value
	    "PK1": "APP#{Application}",   // GSI1 partition
	    "SK1": "SESSION#{SessionID}",
	})

GetOne and Delete take the bare key ("5f0c...") and expand it into every
macro; List takes the bare partition value ("admin") and queries GSI1.

Tests can inject any implementation of Client with
NewDynamodbDataStoreWithClient.
*/
package ddb
