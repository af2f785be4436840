// Package common contains shared constants and sentinel errors used across
// StockKeeper components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "stockkeeper.v1.StockKeeper"
