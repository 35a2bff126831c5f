// Package migrations embeds the PostgreSQL schema migrations so the server
// binary can apply them without the source tree.
package migrations

import "embed"

// FS holds every *.up.sql / *.down.sql pair of this directory
//
//go:embed *.sql
var FS embed.FS
