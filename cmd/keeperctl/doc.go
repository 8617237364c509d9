// Package main provides keeperctl, the CLI for the keeper secrets vault.
//
// Keeper is a multi-tenant vault for team credentials and notes. Projects
// group assets; access is granted per project and per identity; every field
// designated sensitive is encrypted before it reaches the database; every
// state change lands on an append-only audit trail.
//
// # Quick Start
//
//	# Generate a data key for encryption
//	keeperctl data-key generate > data_key
//	export KEEPER_DATA_KEY=$(cat data_key)
//
//	# Run database migrations
//	keeperctl db migrate
//
//	# Start the server
//	keeperctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - KEEPER_DATA_KEY: Base64-encoded 256-bit key for field encryption
//   - KEEPER_TOKEN_SECRET: HMAC secret for API bearer tokens
//   - KEEPER_DIRECTORY_BIND_PASSWORD: LDAP bind password
//   - AUDIT_DATABASE_URL: optional secondary audit database
//   - KEEPER_LOG_LEVEL: log level (debug, info, warn, error)
//   - PORT: server port (default: 8000)
package main
