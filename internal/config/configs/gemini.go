package configs

// Gemini configures the text-completion backend used for message parsing.
// Without an APIKey message ingestion is disabled.
type Gemini struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" envDefault:"gemini-2.5-flash"`
}
