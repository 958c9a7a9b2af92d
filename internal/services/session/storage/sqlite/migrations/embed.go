package migrations

import "embed"

// FS contains embedded SQLite migrations for the session secret store.
//
//go:embed *.sql
var FS embed.FS
