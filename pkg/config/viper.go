package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// InitViper creates and returns a configured *viper.Viper for server-level
// settings. It sets defaults from NewDefaultConfig(), reads the relay.toml
// file when present, and binds environment variables with the RELAY_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound by the command layer)
//  2. Environment variables (RELAY_SERVER_LISTEN, RELAY_SERVER_TIMEOUT_SECONDS)
//  3. relay.toml file values
//  4. Defaults from NewDefaultConfig()
//
// Endpoint tables are arrays and do not flatten into the env/flag chain;
// they are read through Load.
func InitViper(configPath string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("relay")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)
	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.timeout_seconds", d.Server.TimeoutSeconds)
}
