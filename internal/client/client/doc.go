// Package client contains the gRPC client for the StockKeeper server used by
// the terminal CLI.
//
// # Overview
//
// GRPCClient talks to the server over its JSON codec (see the server's grpc
// package), keeps the access token of the current login and attaches it as
// metadata to every call. Login stores the token; Logout always clears it.
//
// # Error Handling
//
// Transport conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable when the server cannot be reached and
// ErrUnauthorized when the token is missing, expired or revoked. Other
// failures are returned as gRPC status errors.
//
// Concurrency & Contexts
//
// GRPCClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation and timeouts.
package client
