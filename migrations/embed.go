// Package migrations holds the consentvault schema. The integration harness
// applies the embedded *.up.sql files in lexical order.
package migrations

import "embed"

// FS contains every up and down migration.
//
//go:embed *.sql
var FS embed.FS
