package groq

type Config struct {
	APIKey          string `envconfig:"API_KEY"`
	BaseURL         string `envconfig:"BASE_URL" default:"https://api.groq.com/openai/v1"`
	Model           string `envconfig:"MODEL" default:"llama-3.1-8b-instant"`
	TimeoutSeconds  int    `envconfig:"TIMEOUT" default:"18"` // таймаут одного запроса, в секундах
	MaxRetrySeconds int    `envconfig:"MAX_RETRY_TIMEOUT" default:"30"`
}

// IsConfigured проверяет, что ключ задан; без ключа генератор работает только через fallback
func (c *Config) IsConfigured() bool {
	return c != nil && c.APIKey != ""
}
