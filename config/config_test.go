package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:10000", cfg.Server.Addr())
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, "happyfans.db", cfg.Database.SQLitePath)
	assert.True(t, cfg.Auth.Enabled)
	assert.False(t, cfg.Auth.RequireLogin)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "happyfans_session", cfg.Auth.CookieName)
	assert.Equal(t, "static/uploads", cfg.Upload.Dir)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Server.Debug)
}

func TestLoadDeploymentEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/fans")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@db:5432/fans", cfg.Database.URL)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoadPrefixedEnv(t *testing.T) {
	t.Setenv("HAPPYFANS_AUTH_ENABLED", "false")
	t.Setenv("HAPPYFANS_AUTH_SESSION_TTL", "30m")
	t.Setenv("HAPPYFANS_SERVER_DEBUG", "true")
	t.Setenv("HAPPYFANS_SERVER_PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Auth.SessionTTL)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("PORT", "70000")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 1},
			Auth:   AuthConfig{SessionTTL: time.Minute, CookieName: "c"},
			Upload: UploadConfig{Dir: "u"},
		}
	}
	require.NoError(t, valid().Validate())

	for name, mutate := range map[string]func(*Config){
		"port":   func(c *Config) { c.Server.Port = 0 },
		"ttl":    func(c *Config) { c.Auth.SessionTTL = 0 },
		"cookie": func(c *Config) { c.Auth.CookieName = " " },
		"upload": func(c *Config) { c.Upload.Dir = "" },
		"rate":   func(c *Config) { c.RateLimit.RPS = -1 },
	} {
		c := valid()
		mutate(c)
		assert.Error(t, c.Validate(), name)
	}
}
