// Package config loads runtime configuration for the postit CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. JSON, or YAML when the
//     file name ends in .yaml/.yml.
//  3. Environment variables with the POSTIT_ prefix.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-d string   session database file
//	-t int      request timeout (seconds)
//	-l string   log level
//
// Environment
//
//	POSTIT_API_BASE_URL, POSTIT_SESSION_DB, POSTIT_REQUEST_TIMEOUT (e.g. "15s"),
//	POSTIT_LOG_LEVEL, POSTIT_PAGE_SIZE
//
// # File schema
//
//	{
//	  "api_base_url": "http://localhost:8080/api",
//	  "session_db": "postit.db",
//	  "request_timeout": "30s",
//	  "log_level": "info",
//	  "page_size": 20
//	}
package config
