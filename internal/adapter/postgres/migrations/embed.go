// Package migrations holds the goose SQL migrations of the words store.
package migrations

import "embed"

// FS contains every *.sql migration, applied in version order.
//
//go:embed *.sql
var FS embed.FS

const (
	// VersionTable is the migration that creates the words table.
	VersionTable int64 = 1
	// VersionIndexes is the migration that builds the lookup indexes.
	VersionIndexes int64 = 2
)
