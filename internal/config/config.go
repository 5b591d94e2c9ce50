package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Log       LogConfig        `mapstructure:"log"`
	Tracing   TracingConfig    `mapstructure:"tracing"`
	Relay     RelayConfig      `mapstructure:"relay"`
	Updates   UpdatesConfig    `mapstructure:"updates"`
	Providers []ProviderConfig `mapstructure:"providers"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Env             string        `mapstructure:"env"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	// DebugAddr serves expvar and pprof when set, e.g. "127.0.0.1:6060".
	DebugAddr       string        `mapstructure:"debug_addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// RelayConfig controls the order providers are tried in and how long each attempt may take.
type RelayConfig struct {
	Priority       []string      `mapstructure:"priority"`
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`
}

type UpdatesConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Repository string `mapstructure:"repository"`
}

// ProviderConfig represents the configuration for a single LLM provider.
type ProviderConfig struct {
	Name    string `json:"name" yaml:"name" mapstructure:"name" validate:"required"`
	Type    string `json:"type" yaml:"type" mapstructure:"type" validate:"required,oneof=google openai"`
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	Model   string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is a literal key. Leave empty to read APIKeyEnv at call time.
	APIKey    string   `json:"-" yaml:"api_key" mapstructure:"api_key"`
	APIKeyEnv []string `json:"api_key_env" yaml:"api_key_env" mapstructure:"api_key_env"`

	// Headers are sent on every request, e.g. OpenRouter's HTTP-Referer and X-Title.
	Headers map[string]string `json:"headers" yaml:"headers" mapstructure:"headers"`
}

// DefaultProviders returns the built-in provider set used when the config file lists none.
func DefaultProviders() []ProviderConfig {
	return []ProviderConfig{
		{
			Name:    "gemini",
			Type:    "google",
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			Model:   "gemini-2.0-flash",
		},
		{
			Name:    "groq",
			Type:    "openai",
			BaseURL: "https://api.groq.com/openai/v1",
			Model:   "llama3-70b-8192",
		},
		{
			Name:    "openrouter",
			Type:    "openai",
			BaseURL: "https://openrouter.ai/api/v1",
			Model:   "openai/gpt-3.5-turbo",
		},
	}
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.debug_addr", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "shem-api")
	v.SetDefault("relay.priority", []string{"gemini", "groq", "openrouter"})
	v.SetDefault("relay.attempt_timeout", "30s")
	v.SetDefault("updates.enabled", false)
	v.SetDefault("updates.repository", "nulzo/shem-api")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if len(cfg.Providers) == 0 {
		cfg.Providers = DefaultProviders()
	}
	for i := range cfg.Providers {
		normalizeProvider(&cfg.Providers[i])
	}

	cfg.Relay.Priority = normalizePriority(cfg.Relay.Priority)

	return &cfg, nil
}

// normalizeProvider turns an "ENV:NAME" api_key into a lookup and fills the default env names.
func normalizeProvider(p *ProviderConfig) {
	p.Name = strings.ToLower(strings.TrimSpace(p.Name))

	if strings.HasPrefix(p.APIKey, "ENV:") {
		p.APIKeyEnv = append([]string{strings.TrimPrefix(p.APIKey, "ENV:")}, p.APIKeyEnv...)
		p.APIKey = ""
	}

	if p.APIKey == "" && len(p.APIKeyEnv) == 0 {
		upper := strings.ToUpper(p.Name)
		p.APIKeyEnv = []string{"VITE_" + upper + "_KEY", upper + "_API_KEY"}
	}
}

// normalizePriority accepts both a yaml list and a comma separated env value.
func normalizePriority(in []string) []string {
	var out []string
	for _, item := range in {
		for _, name := range strings.Split(item, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}
