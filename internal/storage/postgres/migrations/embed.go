// Package migrations embeds the goose SQL migrations for the postgres ledger.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
