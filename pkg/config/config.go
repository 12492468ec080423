// Package config loads API keys and orchestration tunables from
// ~/.postgate/config.yaml with environment variables taking
// precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hanbit-labs/postgate/pkg/breaker"
	"github.com/hanbit-labs/postgate/pkg/provider"
)

// Config holds the application configuration.
type Config struct {
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GoogleAPIKey    string
	DeepSeekAPIKey  string

	Cooldown  time.Duration
	ConfigDir string
}

// FileConfig represents the structure of ~/.postgate/config.yaml.
type FileConfig struct {
	APIKeys      APIKeysConfig `yaml:"api_keys"`
	CooldownMins int           `yaml:"cooldown_minutes,omitempty"`
}

// APIKeysConfig holds API key configuration from file.
type APIKeysConfig struct {
	Anthropic string `yaml:"anthropic"`
	OpenAI    string `yaml:"openai"`
	Google    string `yaml:"google"`
	DeepSeek  string `yaml:"deepseek"`
}

// Load reads configuration from the config file and environment
// variables. Environment variables take precedence.
func Load() (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	fileConfig := loadFileConfig(filepath.Join(configDir, "config.yaml"))

	cfg := &Config{
		AnthropicAPIKey: getEnvOrDefault("ANTHROPIC_API_KEY", fileConfig.APIKeys.Anthropic),
		OpenAIAPIKey:    getEnvOrDefault("OPENAI_API_KEY", fileConfig.APIKeys.OpenAI),
		GoogleAPIKey:    getEnvOrDefault("GOOGLE_API_KEY", fileConfig.APIKeys.Google),
		DeepSeekAPIKey:  getEnvOrDefault("DEEPSEEK_API_KEY", fileConfig.APIKeys.DeepSeek),
		Cooldown:        breaker.DefaultCooldown,
		ConfigDir:       configDir,
	}
	if fileConfig.CooldownMins > 0 {
		cfg.Cooldown = time.Duration(fileConfig.CooldownMins) * time.Minute
	}

	return cfg, nil
}

// Key returns the configured API key for a provider.
func (c *Config) Key(id provider.ID) string {
	switch id {
	case provider.Anthropic:
		return c.AnthropicAPIKey
	case provider.OpenAI:
		return c.OpenAIAPIKey
	case provider.Google:
		return c.GoogleAPIKey
	case provider.DeepSeek:
		return c.DeepSeekAPIKey
	default:
		return ""
	}
}

// HasProvider reports whether a usable API key is configured for the
// given provider.
func (c *Config) HasProvider(id provider.ID) bool {
	return ValidateKey(id, c.Key(id)) == nil
}

// keyPrefixes are the published key shapes per provider. A key that
// does not match is a configuration problem, not a transient failure,
// and the provider is skipped without consuming a retry.
var keyPrefixes = map[provider.ID]string{
	provider.Anthropic: "sk-ant-",
	provider.OpenAI:    "sk-",
	provider.Google:    "AIza",
	provider.DeepSeek:  "sk-",
}

// ValidateKey checks the shape of an API key for a provider.
func ValidateKey(id provider.ID, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return &provider.Error{Kind: provider.KindInvalidCredentials, Provider: id, Err: fmt.Errorf("no API key configured")}
	}
	if prefix, ok := keyPrefixes[id]; ok && !strings.HasPrefix(key, prefix) {
		return &provider.Error{Kind: provider.KindInvalidCredentials, Provider: id, Err: fmt.Errorf("API key does not look like a %s key (expected %q prefix)", id, prefix)}
	}
	if len(key) < 12 {
		return &provider.Error{Kind: provider.KindInvalidCredentials, Provider: id, Err: fmt.Errorf("API key too short")}
	}
	return nil
}

// loadFileConfig reads the config file, returning empty config if not found.
func loadFileConfig(path string) *FileConfig {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg // Return empty config if file doesn't exist
	}

	_ = yaml.Unmarshal(data, cfg) // Ignore parse errors, use defaults
	return cfg
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".postgate")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}
