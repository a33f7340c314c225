// Package migrations bundles the SQL schema migrations into the binary so
// the store can bootstrap itself on first run.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
