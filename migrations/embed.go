// Package migrations embeds the goose SQL schema files (NNNN_name.sql).
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
