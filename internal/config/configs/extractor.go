package configs

import "time"

// Extractor bounds calls to the completion service. RPS and Burst feed the
// token bucket in front of the message endpoint.
type Extractor struct {
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
	RPS     float64       `env:"RPS" envDefault:"1"`
	Burst   int           `env:"BURST" envDefault:"5"`
}
