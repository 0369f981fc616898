package migrations

import "embed"

// FS embeds the SQL migration files of this directory for the golang-migrate
// iofs source driver.
//
//go:embed *.sql
var FS embed.FS

// Version is the schema version the service expects.
const Version = 1
