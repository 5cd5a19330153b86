package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"voicevault-server"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestLoadConfig_Defaults(t *testing.T) {
	withArgs(t)

	cfg := LoadConfig()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, 365*24*time.Hour, cfg.TokenValidity)
	assert.Empty(t, cfg.MintTokenFor)
}

func TestLoadConfig_FlagsOverrideJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"http_addr": ":9090",
		"jwt_secret": "from-json"
	}`), 0o600))

	withArgs(t, "-c", path, "-s", "from-flag", "-g", "device-1")

	cfg := LoadConfig()

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "from-flag", cfg.JWTSecret)
	assert.Equal(t, "device-1", cfg.MintTokenFor)
}
