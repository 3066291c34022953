package config

const (
	defaultListen         = ":8080"
	defaultTimeoutSeconds = 60

	defaultLimit = 100
	defaultState = "Maharashtra"

	// Advisory caching for open-data responses; the gateway itself caches
	// nothing.
	dataCacheControl = "s-maxage=60, stale-while-revalidate"

	analystSystemPrompt = "You are a data analyst for India's Aadhaar enrolment and update statistics. " +
		"Answer concisely using the dashboard context provided by the user."
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen:         defaultListen,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Endpoints: DefaultEndpoints(),
	}
}

// DefaultEndpoints is the built-in endpoint set: chat relays for two
// OpenAI-compatible providers and one open-data proxy. Deployments override
// the set with [[endpoints]] tables in relay.toml.
func DefaultEndpoints() []EndpointConfig {
	return []EndpointConfig{
		{
			Name:          "chat",
			Path:          "/api/chat",
			Kind:          "chat",
			Upstream:      "https://api.groq.com/openai/v1/chat/completions",
			AuthScheme:    "bearer",
			CredentialKey: "GROQ_API_KEY",
			Model:         "llama-3.1-8b-instant",
			SystemPrompt:  analystSystemPrompt,
			Temperature:   0.7,
			MaxTokens:     512,
			PromptFields:  []string{"prompt", "message"},
			CORS:          true,
		},
		{
			Name:          "insight",
			Path:          "/api/insight",
			Kind:          "chat",
			Upstream:      "https://openrouter.ai/api/v1/chat/completions",
			AuthScheme:    "bearer",
			CredentialKey: "OPENROUTER_API_KEY",
			Model:         "meta-llama/llama-3.1-8b-instruct",
			SystemPrompt:  analystSystemPrompt,
			Temperature:   0.7,
			MaxTokens:     512,
			PromptFields:  []string{"prompt", "message"},
			CORS:          true,
		},
		{
			Name:          "enrolment-data",
			Path:          "/api/enrolment",
			Kind:          "data",
			Upstream:      "https://api.data.gov.in/resource/aadhaar-demographic-updates",
			AuthScheme:    "query",
			AuthName:      "api-key",
			CredentialKey: "DATA_GOV_API_KEY",
			DefaultLimit:  defaultLimit,
			DefaultState:  defaultState,
			CacheControl:  dataCacheControl,
		},
	}
}
