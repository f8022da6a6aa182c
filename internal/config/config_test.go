package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "anthropic", cfg.Provider.Default)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Provider.Model)
	assert.Equal(t, "env", cfg.Provider.Anthropic.APIKeySource)
	assert.Equal(t, "diagram.html", cfg.Diagram.Artifact)
	assert.Equal(t, 50.0, cfg.Diagram.FullThreshold)
	assert.Equal(t, "HEAD~1", cfg.Diagram.BaseRef)
	assert.Equal(t, 60000, cfg.Scan.MaxContextBytes)
}

func TestLoadFromFile(t *testing.T) {
	tomlContent := `
[provider]
default = "openai"
model = "gpt-4o"

[provider.anthropic]
api_key_source = "config"
api_key = "sk-from-file"

[diagram]
artifact = "docs/pipeline.html"
full_threshold = 35.0
base_ref = "main"

[scan]
max_context_bytes = 20000
`
	tmpFile := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(tomlContent), 0644))

	cfg, err := Load(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider.Default)
	assert.Equal(t, "gpt-4o", cfg.Provider.Model)
	assert.Equal(t, "config", cfg.Provider.Anthropic.APIKeySource)
	assert.Equal(t, "sk-from-file", cfg.Provider.Anthropic.APIKey)
	assert.Equal(t, "docs/pipeline.html", cfg.Diagram.Artifact)
	assert.Equal(t, 35.0, cfg.Diagram.FullThreshold)
	assert.Equal(t, "main", cfg.Diagram.BaseRef)
	assert.Equal(t, 20000, cfg.Scan.MaxContextBytes)
}

func TestLoadOpenAICompatibleProviders(t *testing.T) {
	tomlContent := `
[provider]
default = "openrouter"
model = "anthropic/claude-sonnet-4-5"

[[provider.openai_compatible]]
name = "openai"
base_url = "https://api.openai.com/v1"
api_key_source = "env"

[[provider.openai_compatible]]
name = "openrouter"
base_url = "https://openrouter.ai/api/v1"
api_key_source = "env"
extra_headers = { HTTP-Referer = "https://github.com/user/flowsmith" }
`
	tmpFile := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(tomlContent), 0644))

	cfg, err := Load(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "openrouter", cfg.Provider.Default)
	require.Len(t, cfg.Provider.OpenAI, 2)
	assert.Equal(t, "openai", cfg.Provider.OpenAI[0].Name)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Provider.OpenAI[0].BaseURL)
	assert.Equal(t, "openrouter", cfg.Provider.OpenAI[1].Name)
	assert.Equal(t, "https://github.com/user/flowsmith", cfg.Provider.OpenAI[1].ExtraHeaders["HTTP-Referer"])
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider.Default)
	assert.Equal(t, "diagram.html", cfg.Diagram.Artifact)
}

func TestLoadInvalidTOML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("[invalid toml..."), 0644))

	_, err := Load(tmpFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoadOllamaProvider(t *testing.T) {
	tomlContent := `
[provider]
default = "ollama"
model = "llama3"

[provider.ollama]
base_url = "http://gpu-box:11434"
`
	tmpFile := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(tomlContent), 0644))

	cfg, err := Load(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Provider.Default)
	assert.Equal(t, "http://gpu-box:11434", cfg.Provider.Ollama.BaseURL)
}
