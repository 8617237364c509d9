// Package db embeds the SQL migration files so production builds carry the
// schema with the binary.
package db

import "embed"

//go:embed migrations
var Migrations embed.FS
