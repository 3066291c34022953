package config

// Config represents the relay gateway configuration stored as relay.toml.
// The TOML layout uses a [server] section plus one [[endpoints]] table per
// relay endpoint.
type Config struct {
	Version   int              `toml:"version"`
	Server    ServerConfig     `toml:"server"`
	Endpoints []EndpointConfig `toml:"endpoints"`
}

// ServerConfig holds gateway-wide settings.
type ServerConfig struct {
	Listen string `toml:"listen,omitempty"`

	// TimeoutSeconds bounds every upstream call.
	TimeoutSeconds int `toml:"timeout_seconds,omitempty"`
}

// EndpointConfig declares one relay endpoint. The upstream contract (URL,
// model, auth scheme, credential name) is configuration, never a code
// constant.
type EndpointConfig struct {
	// Name is a short identifier used in logs and stats.
	Name string `toml:"name"`

	// Path is the inbound route (e.g. "/api/chat").
	Path string `toml:"path"`

	// Kind selects the upstream wire format: "chat" or "data".
	Kind string `toml:"kind"`

	// Upstream is the fixed third-party URL this endpoint forwards to.
	Upstream string `toml:"upstream"`

	// AuthScheme is how the credential is attached: "bearer", "header",
	// or "query".
	AuthScheme string `toml:"auth_scheme"`

	// AuthName is the header or query parameter name for the "header" and
	// "query" schemes.
	AuthName string `toml:"auth_name,omitempty"`

	// CredentialKey names the secret in the credential store
	// (e.g. "GROQ_API_KEY"). The value itself never appears in config.
	CredentialKey string `toml:"credential_key"`

	// Chat payload template.
	Model        string  `toml:"model,omitempty"`
	SystemPrompt string  `toml:"system_prompt,omitempty"`
	Temperature  float64 `toml:"temperature,omitempty"`
	MaxTokens    int     `toml:"max_tokens,omitempty"`

	// PromptFields are the accepted body key names for the user's text,
	// first match wins.
	PromptFields []string `toml:"prompt_fields,omitempty"`

	// Data-proxy query defaults.
	DefaultLimit int    `toml:"default_limit,omitempty"`
	DefaultState string `toml:"default_state,omitempty"`

	// CORS enables the OPTIONS preflight route and permissive
	// cross-origin response headers.
	CORS bool `toml:"cors,omitempty"`

	// CacheControl, when set, is emitted as an advisory Cache-Control
	// header on successful responses.
	CacheControl string `toml:"cache_control,omitempty"`
}
