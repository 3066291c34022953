// Package config loads and validates the relay gateway configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

// Supported auth scheme names.
const (
	AuthBearer = "bearer"
	AuthHeader = "header"
	AuthQuery  = "query"
)

// ValidAuthSchemes returns the list of recognized credential attachment schemes.
func ValidAuthSchemes() []string {
	return []string{AuthBearer, AuthHeader, AuthQuery}
}

// ValidKinds returns the list of recognized endpoint kinds.
func ValidKinds() []string {
	return []string{"chat", "data"}
}

// Load reads the configuration from the given TOML file path. An empty path
// searches the working directory for relay.toml, matching InitViper. A
// missing file yields NewDefaultConfig(), so callers always receive a
// fully-populated, validated Config.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "relay.toml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseConfigTOML parses raw TOML bytes into a Config.
// Returns an error if the version field is present and not equal to CurrentV.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return cfg, nil
}

// applyDefaults fills zero-value fields in cfg with values from NewDefaultConfig().
func applyDefaults(cfg *Config) {
	defaults := NewDefaultConfig()

	if cfg.Version == 0 {
		cfg.Version = defaults.Version
	}

	if cfg.Server.Listen == "" {
		cfg.Server.Listen = defaults.Server.Listen
	}
	if cfg.Server.TimeoutSeconds == 0 {
		cfg.Server.TimeoutSeconds = defaults.Server.TimeoutSeconds
	}

	if len(cfg.Endpoints) == 0 {
		cfg.Endpoints = DefaultEndpoints()
	}

	for i := range cfg.Endpoints {
		ep := &cfg.Endpoints[i]
		if ep.Kind == "chat" && len(ep.PromptFields) == 0 {
			ep.PromptFields = []string{"prompt", "message"}
		}
		if ep.Kind == "data" {
			if ep.DefaultLimit == 0 {
				ep.DefaultLimit = defaultLimit
			}
			if ep.DefaultState == "" {
				ep.DefaultState = defaultState
			}
		}
		if ep.AuthName == "" {
			switch ep.AuthScheme {
			case AuthHeader:
				ep.AuthName = "x-api-key"
			case AuthQuery:
				ep.AuthName = "api-key"
			}
		}
	}
}

// Validate checks the configuration for contradictions that would otherwise
// only surface as request-time failures.
func (c *Config) Validate() error {
	if len(c.Endpoints) == 0 {
		return errors.New("no endpoints configured")
	}

	seen := make(map[string]string, len(c.Endpoints))
	for _, ep := range c.Endpoints {
		if ep.Name == "" {
			return fmt.Errorf("endpoint with path %q has no name", ep.Path)
		}
		if !strings.HasPrefix(ep.Path, "/") {
			return fmt.Errorf("endpoint %q: path %q must start with /", ep.Name, ep.Path)
		}
		if other, dup := seen[ep.Path]; dup {
			return fmt.Errorf("endpoints %q and %q share path %q", other, ep.Name, ep.Path)
		}
		seen[ep.Path] = ep.Name

		if !slices.Contains(ValidKinds(), ep.Kind) {
			return fmt.Errorf("endpoint %q: unknown kind %q (supported: %v)", ep.Name, ep.Kind, ValidKinds())
		}
		if !slices.Contains(ValidAuthSchemes(), ep.AuthScheme) {
			return fmt.Errorf("endpoint %q: unknown auth scheme %q (supported: %v)", ep.Name, ep.AuthScheme, ValidAuthSchemes())
		}
		if (ep.AuthScheme == AuthHeader || ep.AuthScheme == AuthQuery) && ep.AuthName == "" {
			return fmt.Errorf("endpoint %q: auth scheme %q requires auth_name", ep.Name, ep.AuthScheme)
		}
		if !strings.HasPrefix(ep.Upstream, "http://") && !strings.HasPrefix(ep.Upstream, "https://") {
			return fmt.Errorf("endpoint %q: upstream %q is not an http(s) URL", ep.Name, ep.Upstream)
		}
		if ep.CredentialKey == "" {
			return fmt.Errorf("endpoint %q: credential_key is required", ep.Name)
		}
		if ep.Kind == "chat" && ep.Model == "" {
			return fmt.Errorf("endpoint %q: chat endpoints require a model", ep.Name)
		}
	}

	return nil
}
