package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, ":8040", cfg.System.Listen)
	assert.Equal(t, "potiond_session", cfg.Web.CookieName)
	assert.Equal(t, "potiond", cfg.Database.Name)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "potiond.yml")
	content := []byte("system:\n  listen: \":9000\"\nweb:\n  cookie_name: brew_session\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.System.Listen)
	assert.Equal(t, "brew_session", cfg.Web.CookieName)
	assert.Equal(t, "potiond", cfg.Database.Name, "unset sections keep defaults")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("POTIOND_WEB_SECRET", "env-secret")
	t.Setenv("POTIOND_WEB_BCRYPT_COST", "4")
	t.Setenv("POTIOND_LOGGER_FILE_ENABLE", "true")
	t.Setenv("POTIOND_DATABASE_URL", "mongodb://db:27017")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Web.Secret)
	assert.Equal(t, 4, cfg.Web.BcryptCost)
	assert.True(t, cfg.Logger.FileEnable)
	assert.Equal(t, "mongodb://db:27017", cfg.Database.URL)
}

func TestLoadConfigIgnoresMalformedEnvNumbers(t *testing.T) {
	t.Setenv("POTIOND_WEB_BCRYPT_COST", "lots")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Web.BcryptCost, cfg.Web.BcryptCost)
}
