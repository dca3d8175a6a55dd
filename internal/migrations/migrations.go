// Package migrations embeds the goose SQL migrations for the user
// directory schema (spec.md §6).
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
