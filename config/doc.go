// Package config provides configuration loading and validation for foldery.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (FOLDERY_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with FOLDERY_ prefix:
//   - server.port → FOLDERY_SERVER_PORT
//   - database.type → FOLDERY_DATABASE_TYPE
//   - storage.s3.secret_access_key → FOLDERY_STORAGE_S3_SECRET_ACCESS_KEY
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: port and the identity header name
//   - Service: default folder type, parent reference cascading, scan page size
//   - Database: backend type, DSN, auto migration and table names
//   - Storage: backend type, bucket prefix and per-backend options
//   - CORS: fixed envelope values or negotiated mode
//   - Log: logging level
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Database type must be sqlite, postgres, badger or memory
//   - Storage type must be filesystem, s3 or memory
//   - Log level must be debug, info, warn, or error
//
// Table names are checked only for the SQL backends.
package config
