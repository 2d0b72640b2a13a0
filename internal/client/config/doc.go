// Package config loads runtime configuration for the passguardctl client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API (e.g. http://localhost:8080/api)
//	-t int      request timeout (seconds)
//	-d string   path of the local token store
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "15s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_url": "http://localhost:8080/api",
//	  "request_timeout": "15s",
//	  "token_store_path": "passguard.db"
//	}
package config
