package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"server_endpoint_url": "http://vault.example/api",
		"request_timeout":     "30s",
		"token_store_path":    "/tmp/pg.db",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "http://vault.example/api", cfg.ServerEndpointURL)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "/tmp/pg.db", cfg.TokenStorePath)
	})

	t.Run("no config flag means no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{ServerEndpointURL: "http://kept.example/api"}
		parseJson(cfg)

		assert.Equal(t, "http://kept.example/api", cfg.ServerEndpointURL)
	})

	t.Run("partial json keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"server_endpoint_url": "http://partial.example/api",
		})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "http://partial.example/api", cfg.ServerEndpointURL)
		assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "passguard.db", cfg.TokenStorePath)
	})
}

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "http://localhost:8080/api", cfg.ServerEndpointURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "passguard.db", cfg.TokenStorePath)
}
