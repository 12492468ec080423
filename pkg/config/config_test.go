package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbit-labs/postgate/pkg/provider"
)

func setHomeEnv(t *testing.T, home string) {
	t.Helper()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}
}

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GOOGLE_API_KEY", "DEEPSEEK_API_KEY"} {
		t.Setenv(v, "")
	}
}

func writeConfigFile(t *testing.T, content string) {
	t.Helper()
	home := t.TempDir()
	setHomeEnv(t, home)
	dir := filepath.Join(home, ".postgate")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))
}

func TestLoadFromFile(t *testing.T) {
	clearProviderEnv(t)
	writeConfigFile(t, `
api_keys:
  anthropic: sk-ant-file-key-12345
  openai: sk-file-key-12345
cooldown_minutes: 10
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-ant-file-key-12345", cfg.AnthropicAPIKey)
	assert.Equal(t, "sk-file-key-12345", cfg.OpenAIAPIKey)
	assert.Empty(t, cfg.GoogleAPIKey)
	assert.Equal(t, 10*time.Minute, cfg.Cooldown)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearProviderEnv(t)
	writeConfigFile(t, `
api_keys:
  openai: sk-from-file-12345
`)
	t.Setenv("OPENAI_API_KEY", "sk-from-env-12345")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-from-env-12345", cfg.OpenAIAPIKey)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearProviderEnv(t)
	setHomeEnv(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.AnthropicAPIKey)
	assert.Equal(t, 5*time.Minute, cfg.Cooldown)
}

func TestKeyPerProvider(t *testing.T) {
	cfg := &Config{
		AnthropicAPIKey: "a",
		OpenAIAPIKey:    "b",
		GoogleAPIKey:    "c",
		DeepSeekAPIKey:  "d",
	}

	assert.Equal(t, "a", cfg.Key(provider.Anthropic))
	assert.Equal(t, "b", cfg.Key(provider.OpenAI))
	assert.Equal(t, "c", cfg.Key(provider.Google))
	assert.Equal(t, "d", cfg.Key(provider.DeepSeek))
	assert.Empty(t, cfg.Key(provider.ID("mistral")))
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name string
		id   provider.ID
		key  string
		ok   bool
	}{
		{"anthropic valid", provider.Anthropic, "sk-ant-abc123def456", true},
		{"anthropic wrong prefix", provider.Anthropic, "sk-abc123def456", false},
		{"openai valid", provider.OpenAI, "sk-abc123def456", true},
		{"google valid", provider.Google, "AIzaSyAbc123def", true},
		{"google wrong prefix", provider.Google, "sk-abc123def456", false},
		{"deepseek valid", provider.DeepSeek, "sk-abc123def456", true},
		{"empty", provider.OpenAI, "", false},
		{"whitespace only", provider.OpenAI, "   ", false},
		{"too short", provider.OpenAI, "sk-short", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.id, tt.key)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, provider.KindInvalidCredentials, provider.KindOf(err))
		})
	}
}

func TestHasProvider(t *testing.T) {
	cfg := &Config{OpenAIAPIKey: "sk-abc123def456"}

	assert.True(t, cfg.HasProvider(provider.OpenAI))
	assert.False(t, cfg.HasProvider(provider.Anthropic))
}
