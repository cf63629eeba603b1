package utils

// Config is read once at startup and never mutated afterwards
type Config struct {
	Port  string
	Debug bool

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	// Optional s3://bucket/key replacing the embedded prompt template
	PromptTemplateURI string

	// Optional integrations, enabled when their host is set
	ValkeyHost   string
	PostgresHost string
}

// CredentialPresent reports whether analysis requests can be served
func (c Config) CredentialPresent() bool {
	return c.GeminiAPIKey != ""
}

func (c Config) ValkeyEnabled() bool {
	return c.ValkeyHost != ""
}

func (c Config) PostgresEnabled() bool {
	return c.PostgresHost != ""
}

// LoadConfig reads the process environment. A missing GEMINI_API_KEY is
// tolerated so the page and health endpoints stay up.
func LoadConfig() Config {
	cfg := Config{
		Port:              GetEnvOrDefault("PORT", "5000"),
		Debug:             GetEnvBool("DEBUG") || GetEnvBool("FLASK_DEBUG"),
		GeminiAPIKey:      GetEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:       GetEnvOrDefault("GEMINI_MODEL", ""),
		GeminiBaseURL:     GetEnvOrDefault("GEMINI_BASE_URL", ""),
		PromptTemplateURI: GetEnvOrDefault("PROMPT_TEMPLATE_S3_URI", ""),
		ValkeyHost:        GetEnvOrDefault("VALKEY_HOST", ""),
		PostgresHost:      GetEnvOrDefault("POSTGRES_HOST", ""),
	}
	return cfg
}
