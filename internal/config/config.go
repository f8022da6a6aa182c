// Package config loads flowsmith configuration from a TOML file and
// resolves provider credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the top-level application configuration.
type Config struct {
	Provider ProviderConfig `toml:"provider"`
	Diagram  DiagramConfig  `toml:"diagram"`
	Scan     ScanConfig     `toml:"scan"`
}

// ProviderConfig holds settings for LLM provider selection and configuration.
type ProviderConfig struct {
	// Default names the active provider: "anthropic", "ollama", or an
	// entry from the openai_compatible list.
	Default   string                   `toml:"default"`
	Model     string                   `toml:"model"`
	Anthropic AnthropicProviderConfig  `toml:"anthropic"`
	Ollama    OllamaProviderConfig     `toml:"ollama"`
	OpenAI    []OpenAICompatibleConfig `toml:"openai_compatible"`
}

// AnthropicProviderConfig holds Anthropic-specific provider settings.
type AnthropicProviderConfig struct {
	APIKeySource string `toml:"api_key_source"`
	APIKey       string `toml:"api_key"`
}

// OllamaProviderConfig holds Ollama-specific provider settings.
type OllamaProviderConfig struct {
	BaseURL string `toml:"base_url"`
}

// OpenAICompatibleConfig holds settings for an OpenAI-compatible provider.
type OpenAICompatibleConfig struct {
	Name         string            `toml:"name"`
	BaseURL      string            `toml:"base_url"`
	APIKeySource string            `toml:"api_key_source"`
	APIKey       string            `toml:"api_key"`
	ExtraHeaders map[string]string `toml:"extra_headers"`
}

// DiagramConfig controls artifact location and update policy.
type DiagramConfig struct {
	// Artifact is the HTML file holding the diagram, relative to the
	// target repository root.
	Artifact string `toml:"artifact"`
	// FullThreshold is the affected-node percentage above which an
	// incremental update falls back to full regeneration.
	FullThreshold float64 `toml:"full_threshold"`
	// BaseRef is the git ref diffs are computed against when no run
	// history exists.
	BaseRef string `toml:"base_ref"`
}

// ScanConfig bounds how much source context is collected for prompts.
type ScanConfig struct {
	MaxFileBytes    int `toml:"max_file_bytes"`
	MaxContextBytes int `toml:"max_context_bytes"`
}

// DefaultConfig returns a Config populated with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Default: "anthropic",
			Model:   "claude-sonnet-4-5",
			Anthropic: AnthropicProviderConfig{
				APIKeySource: "env",
			},
		},
		Diagram: DiagramConfig{
			Artifact:      "diagram.html",
			FullThreshold: 50,
			BaseRef:       "HEAD~1",
		},
		Scan: ScanConfig{
			MaxFileBytes:    512 * 1024,
			MaxContextBytes: 60000,
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "flowsmith", "config.toml")
}

// Load reads the config file at path. A missing file is not an error: the
// defaults are returned unchanged. Values present in the file override
// defaults field by field.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}
