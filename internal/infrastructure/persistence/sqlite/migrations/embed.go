package migrations

import "embed"

// FS contains the embedded SQLite migrations for the slot store.
//
//go:embed *.sql
var FS embed.FS
