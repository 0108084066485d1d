// Package config loads the canopy.yaml application configuration.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAPIKeyEnv is the environment variable consulted for the fallback
// API key. Keys never live in the config file itself.
const DefaultAPIKeyEnv = "ANTHROPIC_API_KEY"

// Duration wraps time.Duration so YAML values like "30s" or "1h" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the underlying time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the application configuration for the CLI and servers.
type Config struct {
	// APIKeyEnv names the environment variable holding the fallback key.
	APIKeyEnv string `yaml:"api_key_env"`

	// BaseURL overrides the Anthropic endpoint (proxies, tests).
	BaseURL string `yaml:"base_url"`

	// DefaultModel is used by the run command when --model is not given.
	DefaultModel string `yaml:"default_model"`

	// Timeout bounds a single model call.
	Timeout Duration `yaml:"timeout"`

	HTTP  HTTPConfig  `yaml:"http"`
	Redis RedisConfig `yaml:"redis"`
	Store StoreConfig `yaml:"store"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// HTTPConfig configures the host-facing HTTP server.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// RedisConfig configures the optional Redis result store.
// An empty Addr means the in-memory store is used.
type RedisConfig struct {
	Addr     string   `yaml:"addr"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
	TTL      Duration `yaml:"ttl"`
}

// StoreConfig configures the at-rest protections for stored results.
type StoreConfig struct {
	// RedactKeys are regexp patterns; output keys matching one are masked
	// before persisting.
	RedactKeys []string `yaml:"redact_keys"`

	// EncryptionKeyEnv names an environment variable holding a
	// base64-encoded 32-byte key. When set, results are encrypted at rest.
	EncryptionKeyEnv string `yaml:"encryption_key_env"`
}

// EncryptionKey resolves and decodes the configured at-rest key.
// Returns nil when no key is configured.
func (c StoreConfig) EncryptionKey() ([]byte, error) {
	if c.EncryptionKeyEnv == "" {
		return nil, nil
	}
	raw := os.Getenv(c.EncryptionKeyEnv)
	if raw == "" {
		return nil, fmt.Errorf("encryption key env %s is not set", c.EncryptionKeyEnv)
	}
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		APIKeyEnv: DefaultAPIKeyEnv,
		Timeout:   Duration(120 * time.Second),
		HTTP:      HTTPConfig{Addr: ":8080"},
		Redis:     RedisConfig{TTL: Duration(24 * time.Hour)},
		LogLevel:  "info",
	}
}

// Load reads a YAML config file, layered over Default.
// A missing path is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// APIKey resolves the fallback API key from the configured environment
// variable. Empty when unset.
func (c Config) APIKey() string {
	env := c.APIKeyEnv
	if env == "" {
		env = DefaultAPIKeyEnv
	}
	return os.Getenv(env)
}
