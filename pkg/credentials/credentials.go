// Package credentials provides lookup of upstream API secrets.
//
// Secrets are referenced by name (e.g. "GROQ_API_KEY") in endpoint
// configuration and resolved at request time through a Store. Handlers
// receive a Store explicitly instead of reading ambient process state,
// which keeps them testable with injected fake credentials. Secret
// values must never be written to logs.
package credentials

import (
	"os"
	"strings"
)

// Store resolves a named secret. Implementations must be safe for
// concurrent use.
type Store interface {
	// Lookup returns the secret value for the given key and whether it
	// is present. An empty value counts as absent.
	Lookup(key string) (string, bool)
}

// Env is a Store backed by process environment variables.
type Env struct{}

// NewEnv creates an environment-backed Store.
func NewEnv() Env {
	return Env{}
}

func (Env) Lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Static is a fixed in-memory Store, used in tests and for programmatic
// embedding of the relay.
type Static map[string]string

func (s Static) Lookup(key string) (string, bool) {
	v, ok := s[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}
