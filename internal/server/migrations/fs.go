// Package migrations embeds the server schema migration files.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
