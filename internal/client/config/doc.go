// Package config loads runtime configuration for the recipebook CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, optionally seeded from a dotenv file
//     (-e/-env-file, otherwise ./.env when present).
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   recipe API base URL
//	-d string   local sqlite database path
//	-t int      request timeout (seconds)
//	-l string   log level (debug, info, warn, error)
//
// # Environment
//
//	RECIPES_API_BASE, RECIPES_DB_PATH, RECIPES_REQUEST_TIMEOUT, LOG_LEVEL,
//	RECIPES_S3_REGION, RECIPES_S3_ENDPOINT, RECIPES_S3_ACCESS_KEY,
//	RECIPES_S3_SECRET_KEY, RECIPES_S3_USE_PATH_STYLE
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:8000/api",
//	  "database_path": "recipebook.db",
//	  "request_timeout": "10s",
//	  "log_level": "info",
//	  "s3": {"region": "us-east-1", "endpoint": "http://127.0.0.1:9000", "use_path_style": true}
//	}
package config
