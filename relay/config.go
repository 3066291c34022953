package relay

import (
	"time"

	"github.com/janadata/relay/pkg/config"
)

// DefaultUpstreamTimeout bounds outbound calls when no timeout is configured.
const DefaultUpstreamTimeout = 60 * time.Second

// Config is the relay server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// UpstreamTimeout bounds every outbound call, connection setup and
	// body read included. Zero means DefaultUpstreamTimeout.
	UpstreamTimeout time.Duration

	// Endpoints is the set of relay routes to serve.
	Endpoints []Endpoint
}

// Endpoint parameterizes one relay route: where to forward, how to attach
// the credential, and what payload template to use.
type Endpoint struct {
	Name          string
	Path          string
	Kind          string
	Upstream      string
	AuthScheme    string
	AuthName      string
	CredentialKey string

	// Chat payload template.
	Model        string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int

	// PromptFields are the accepted body key names, first match wins.
	PromptFields []string

	// Data-proxy query defaults.
	DefaultLimit int
	DefaultState string

	CORS         bool
	CacheControl string
}

// ConfigFrom converts a loaded file configuration into the runtime Config.
func ConfigFrom(c *config.Config) Config {
	endpoints := make([]Endpoint, 0, len(c.Endpoints))
	for _, ep := range c.Endpoints {
		endpoints = append(endpoints, Endpoint{
			Name:          ep.Name,
			Path:          ep.Path,
			Kind:          ep.Kind,
			Upstream:      ep.Upstream,
			AuthScheme:    ep.AuthScheme,
			AuthName:      ep.AuthName,
			CredentialKey: ep.CredentialKey,
			Model:         ep.Model,
			SystemPrompt:  ep.SystemPrompt,
			Temperature:   ep.Temperature,
			MaxTokens:     ep.MaxTokens,
			PromptFields:  ep.PromptFields,
			DefaultLimit:  ep.DefaultLimit,
			DefaultState:  ep.DefaultState,
			CORS:          ep.CORS,
			CacheControl:  ep.CacheControl,
		})
	}

	return Config{
		ListenAddr:      c.Server.Listen,
		UpstreamTimeout: time.Duration(c.Server.TimeoutSeconds) * time.Second,
		Endpoints:       endpoints,
	}
}
