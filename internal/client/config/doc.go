// Package config loads runtime configuration for the petsync client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. PETSYNC_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "10s"
// or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.petfinder.com",
//	  "token_url": "https://api.petfinder.com/v2/oauth2/token",
//	  "client_id": "...",
//	  "database_path": "petsync.db",
//	  "page_size": 20,
//	  "postcode": "07097",
//	  "distance": 50,
//	  "request_timeout": "20s",
//	  "refresh_timeout": "10s",
//	  "search_debounce": "500ms",
//	  "requests_per_second": 2,
//	  "log_backend": "zap",
//	  "log_level": "debug"
//	}
//
// Loading panics on unreadable files and malformed values; call Validate
// afterwards to check the combined result.
package config
