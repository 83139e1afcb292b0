// Package migrations embeds the identity service's goose migration set.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
