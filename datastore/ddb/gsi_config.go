/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

// GSIConfig holds the configuration for GSI key mappings
type GSIConfig struct {
	// IndexName is the actual GSI name in DynamoDB (e.g., "GSI1")
	IndexName string
	// PartitionKeyName is the index map key of the partition attribute (e.g., "PK1")
	PartitionKeyName string
	// SortKeyName is the index map key of the sort attribute (e.g., "SK1")
	SortKeyName string
}

// DefaultGSIConfigs holds the default GSI configurations. List queries the
// index named by ListIndex.
var DefaultGSIConfigs = map[string]GSIConfig{
	"GSI1": {
		IndexName:        "GSI1",
		PartitionKeyName: "PK1",
		SortKeyName:      "SK1",
	},
}

// ListIndex is the GSI used to list a partition.
const ListIndex = "GSI1"

// GetGSIConfig returns the GSI configuration for a given index name
func GetGSIConfig(indexName string) (GSIConfig, bool) {
	config, ok := DefaultGSIConfigs[indexName]
	return config, ok
}
