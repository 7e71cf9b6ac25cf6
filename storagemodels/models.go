/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"
)

// SessionRoutesIndexMap lays SessionRoutes out in a single table: one item
// per session, listed per application through GSI1.
var SessionRoutesIndexMap = map[string]string{
	"PK":  "SESSION#{SessionID}",
	"SK":  "ROUTES",
	"PK1": "APP#{Application}",
	"SK1": "SESSION#{SessionID}",
}

// SessionRoutes is the persisted form of a session overlay registry. It holds
// the overlay's own routes and error targets; the parent registry and any
// locks are rebuilt on activation.
type SessionRoutes struct {
	SessionID    strfmt.UUID         `json:"sessionId" cbor:"sessionId" dynamodbav:"SessionID"`
	Application  string              `json:"application" cbor:"application" dynamodbav:"Application"`
	Version      int64               `json:"version" cbor:"version" dynamodbav:"Version"`
	SavedAt      time.Time           `json:"savedAt" cbor:"savedAt" dynamodbav:"SavedAt"`
	Routes       []RouteRecord       `json:"routes" cbor:"routes" dynamodbav:"Routes"`
	ErrorTargets []ErrorTargetRecord `json:"errorTargets,omitempty" cbor:"errorTargets,omitempty" dynamodbav:"ErrorTargets,omitempty"`
}

// StoreVersion is used by the stores for optimistic concurrency.
func (s SessionRoutes) StoreVersion() int64 {
	return s.Version
}

// RouteRecord is one (path, target) binding.
type RouteRecord struct {
	Path          string   `json:"path" cbor:"path" dynamodbav:"Path"`
	Target        string   `json:"target" cbor:"target" dynamodbav:"Target"`
	Parameter     string   `json:"parameter,omitempty" cbor:"parameter,omitempty" dynamodbav:"Parameter,omitempty"`
	Primary       bool     `json:"primary" cbor:"primary" dynamodbav:"Primary"`
	ParentLayouts []string `json:"parentLayouts,omitempty" cbor:"parentLayouts,omitempty" dynamodbav:"ParentLayouts,omitempty"`
}

// ErrorTargetRecord binds an error kind to a target.
type ErrorTargetRecord struct {
	Kind      string `json:"kind" cbor:"kind" dynamodbav:"Kind"`
	Target    string `json:"target" cbor:"target" dynamodbav:"Target"`
	Parameter string `json:"parameter,omitempty" cbor:"parameter,omitempty" dynamodbav:"Parameter,omitempty"`
}

// QueryParams defines parameters for a DynamoDB Query operation.
type QueryParams struct {
	// TableName is the DynamoDB table name.
	TableName string
	// KeyConditionExpression is the primary condition for the query.
	KeyConditionExpression string
	// FilterExpression is an optional filter expression.
	FilterExpression *string
	// ExpressionAttributeNames contains the names for expression placeholders.
	ExpressionAttributeNames map[string]string
	// ExpressionAttributeValues contains the values for expression placeholders.
	ExpressionAttributeValues map[string]types.AttributeValue
	// IndexName is optional if you wish to query a secondary index.
	IndexName *string
	// ExclusiveStartKey for pagination
	ExclusiveStartKey map[string]types.AttributeValue
	// ScanIndexForward specifies the order for index traversal.
	ScanIndexForward *bool
}
