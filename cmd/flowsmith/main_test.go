// cmd/flowsmith/main_test.go
package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionString(t *testing.T) {
	assert.Contains(t, versionString(), "flowsmith dev")
}

func TestRepoDirArgDefaultsToCwd(t *testing.T) {
	dir, err := repoDirArg(nil)
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, dir)
}

func TestRepoDirArgRejectsMissingPath(t *testing.T) {
	_, err := repoDirArg([]string{"/nonexistent/repo/path"})
	assert.Error(t, err)
}

func TestRepoDirArgRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := repoDirArg([]string{path})
	assert.ErrorContains(t, err, "not a directory")
}

func TestLoadConfigAppliesOverrides(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "missing.toml")
	providerFlag = "ollama"
	modelFlag = "llama3.2"
	t.Cleanup(func() {
		configPath, providerFlag, modelFlag = "", "", ""
	})

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Provider.Default)
	assert.Equal(t, "llama3.2", cfg.Provider.Model)
}
