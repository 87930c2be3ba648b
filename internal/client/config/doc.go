// Package config loads runtime configuration for the mailadmin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string        backend base URL
//	-t duration      per-request timeout
//	-d string        session database path ("" keeps the session in memory)
//	-p string        cascade policy: proceed, abort, require-all, retry
//	-j int           concurrent item deletes during a cascade (0 = unlimited)
//	-rate float      item deletes per second during a cascade (0 = unlimited)
//	-retries int     item delete retries under the retry policy
//	-e string        token expiry policy: check, ignore
//	-log-format str  text, json or zap
//	-log-level str   debug, info, warn, error
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "3s" or integer
// nanoseconds. Keys left out of the file keep their earlier value.
//
//	{
//	  "server_base_url": "http://localhost:3000",
//	  "request_timeout": "15s",
//	  "session_db": "/home/ann/.config/mailadmin/session.db",
//	  "cascade_policy": "require-all",
//	  "cascade_concurrency": 4,
//	  "cascade_rate": 20,
//	  "cascade_retries": 2,
//	  "cascade_backoff": "200ms",
//	  "expiry_policy": "check",
//	  "log_format": "text",
//	  "log_level": "info"
//	}
package config
