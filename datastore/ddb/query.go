/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/routestore/storagemodels"
)

// partitionQuery builds the query listing partition on ListIndex. The
// partition value replaces the macro of T's GSI partition key template, so
// with "PK1": "APP#{Application}" partition "admin" queries PK1 = "APP#admin".
func (d *DynamodbDataStore[T]) partitionQuery(partition string) (*storagemodels.QueryParams, error) {
	if partition == "" {
		return nil, fmt.Errorf("GSI partition key value is required")
	}
	indexMap, err := d.indexMap()
	if err != nil {
		return nil, err
	}
	gsi, ok := GetGSIConfig(ListIndex)
	if !ok {
		return nil, fmt.Errorf("no GSI configuration for %s", ListIndex)
	}
	template, ok := indexMap[gsi.PartitionKeyName]
	if !ok {
		return nil, fmt.Errorf("%s not found in index map", gsi.PartitionKeyName)
	}

	return &storagemodels.QueryParams{
		TableName:                d.tableName,
		IndexName:                aws.String(gsi.IndexName),
		KeyConditionExpression:   "#pk = :pk",
		ExpressionAttributeNames: map[string]string{"#pk": gsi.PartitionKeyName},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: macroPattern.ReplaceAllLiteralString(template, partition)},
		},
	}, nil
}
