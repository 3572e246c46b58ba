package sqlidentity

import (
	"embed"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the bundled schema migrations. Hosts that manage
// schema through their own migrator can feed these to it instead of calling
// EnsureSchema.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
