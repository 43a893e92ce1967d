// Package migrations embeds the MySQL schema so goose can apply it at API
// start-up and in integration tests.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
