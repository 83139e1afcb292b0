// Package migrations embeds order-svc's goose migration scripts.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
