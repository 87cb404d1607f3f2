package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "api_key: sk-test\nbase_url: http://localhost:8080/v1\nmodel: qwen\nschema: contact.yaml\n")
	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", conf.APIKey)
	assert.Equal(t, "http://localhost:8080/v1", conf.BaseURL)
	assert.Equal(t, "qwen", conf.Model)
	assert.Equal(t, "contact.yaml", conf.Schema)
	assert.Equal(t, ".slotagent/state", conf.StoreDir)
	assert.NotContains(t, conf.String(), "sk-test")
}

func TestLoadEnvFallback(t *testing.T) {
	t.Setenv(apiKeyEnv, "sk-env")
	conf, err := Load(writeConfig(t, "model: gpt-4o\n"))
	require.NoError(t, err)
	assert.Equal(t, "sk-env", conf.APIKey)
}

func TestMissingAPIKey(t *testing.T) {
	t.Setenv(apiKeyEnv, "")
	conf, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)
	_, err = conf.NewChatModel(context.Background())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, err = Load(writeConfig(t, "model: [unterminated\n"))
	assert.ErrorContains(t, err, "parse config")
}
