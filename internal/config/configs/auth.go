package configs

// Auth configures the single-credential login gate. It exists for
// development and test deployments; an empty Password rejects every login.
type Auth struct {
	Enabled  bool   `env:"ENABLED" envDefault:"true"`
	Email    string `env:"EMAIL" envDefault:"admin@example.com"`
	Password string `env:"PASSWORD"`
}
