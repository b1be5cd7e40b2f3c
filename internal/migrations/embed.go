// Package migrations carries the vault schema history for goose: plain SQL
// files embedded below plus Go migrations registered from init.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
