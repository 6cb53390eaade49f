// Package migrations embebe las migraciones SQL de PostgreSQL.
package migrations

import "embed"

// PostgresFS contiene las migraciones del esquema Elder Watch.
//
//go:embed *.sql
var PostgresFS embed.FS

// PostgresDir es el directorio dentro de PostgresFS donde viven las migraciones.
const PostgresDir = "."
