// Package config loads runtime configuration for the portal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional YAML file selected via -c or -config.
//  3. The ICHO_API_URL environment variable.
//  4. Command-line flags, which override everything above.
//
// Supported flags
//
//	-a string   API base URL
//	-p string   portal URL (cookie scope for the routing layer)
//	-d string   SQLite database path
//	-t int      request timeout in seconds
//	-l string   log level
//
// # YAML schema
//
//	api_url: https://api.icho.uz/api
//	portal_url: https://portal.icho.uz
//	database_path: icho.db
//	request_timeout: 30s
//	log_level: info
package config
