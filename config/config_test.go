package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalYAML = `
auth:
  jwt_secret: "0123456789abcdef0123"
  admin_password: "segreto"
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "fixed", cfg.Shifts.TaskMode)
	assert.Equal(t, "Europe/Rome", cfg.Shifts.Timezone)
	assert.Equal(t, 2, cfg.Roster.SkipRows)
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "turni_session", cfg.Auth.Cookie.Name)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("TURNI_SERVER_PORT", "9090")
	t.Setenv("TURNI_SHIFTS_TASK_MODE", "variable")

	cfg, err := Load(writeConfig(t, minimalYAML+"\nserver:\n  port: 7070\n"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "variable", cfg.Shifts.TaskMode)
}

func TestLoad_MissingSecret(t *testing.T) {
	_, err := Load(writeConfig(t, "log:\n  level: debug\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWTSecret")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(writeConfig(t, minimalYAML))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad task mode", func(c *Config) { c.Shifts.TaskMode = "hourly" }},
		{"bad timezone", func(c *Config) { c.Shifts.Timezone = "Mars/Olympus" }},
		{"bad roster url", func(c *Config) { c.Roster.URL = "not a url" }},
		{"bad same site", func(c *Config) { c.Auth.Cookie.SameSite = "lax-ish" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "turni", SSLMode: "disable", Timezone: "Europe/Rome"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=turni sslmode=disable TimeZone=Europe/Rome", c.DSN())
	assert.Equal(t, "postgres://u:p@db:5432/turni?sslmode=disable", c.URL())
}
