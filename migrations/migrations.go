// Package migrations embeds the SQL migration files so the server binary
// can apply them without shipping the directory separately.
package migrations

import "embed"

// FS holds every goose migration.
//
//go:embed *.sql
var FS embed.FS
