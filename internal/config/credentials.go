package config

import (
	"os"
	"strings"
)

// EnvCredentials resolves provider keys from the process environment on every call.
// Nothing is cached, so rotating a key in the environment takes effect on the next request.
type EnvCredentials struct {
	providers map[string]ProviderConfig
}

func NewEnvCredentials(providers []ProviderConfig) *EnvCredentials {
	m := make(map[string]ProviderConfig, len(providers))
	for _, p := range providers {
		m[p.Name] = p
	}
	return &EnvCredentials{providers: m}
}

// APIKey returns the provider's key, or "" when none is configured.
func (c *EnvCredentials) APIKey(provider string) string {
	p, ok := c.providers[provider]
	if !ok {
		return ""
	}
	if p.APIKey != "" {
		return p.APIKey
	}
	for _, name := range p.APIKeyEnv {
		if val := strings.TrimSpace(os.Getenv(name)); val != "" {
			return val
		}
	}
	return ""
}

// StaticCredentials is a fixed provider -> key map.
type StaticCredentials map[string]string

func (s StaticCredentials) APIKey(provider string) string {
	return s[provider]
}
