// Package config loads runtime configuration for the StockKeeper terminal
// client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected with -c/-config or the
//     CONFIG environment variable.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the StockKeeper gRPC endpoint
//	-t int      per-request timeout (seconds)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "5s" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "5s"
//	}
package config
