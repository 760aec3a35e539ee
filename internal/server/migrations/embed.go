// Package migrations embeds the PostgreSQL schema migrations for catalogd.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
