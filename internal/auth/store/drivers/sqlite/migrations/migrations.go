// Package migrations embeds the sqlite schema migration files so they ship
// inside the binary and apply on startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
