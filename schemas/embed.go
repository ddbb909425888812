// Package schemas embeds the SQL migrations of the database learning state backend.
package schemas

import "embed"

// Migrations holds migrations/NNN_name.sql, applied in file name order.
//
//go:embed migrations/*.sql
var Migrations embed.FS
