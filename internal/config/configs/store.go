package configs

import "strings"

// Store selects where the application state blob lives. Driver is
// "postgres" or "memory"; anything else is treated as "memory". SeedDemo
// loads the demo products and campaigns when nothing has been saved yet.
type Store struct {
	Driver   string `env:"DRIVER" envDefault:"postgres"`
	SeedDemo bool   `env:"SEED_DEMO" envDefault:"true"`
}

// UsePostgres reports whether the Postgres repository is selected.
func (c Store) UsePostgres() bool {
	return strings.EqualFold(strings.TrimSpace(c.Driver), "postgres")
}
