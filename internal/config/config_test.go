package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "memory", c.Storage.Driver)
	assert.Equal(t, "memory", c.Cache.Kind)
	assert.Equal(t, []string{"*"}, c.Server.CORSAllowedOrigins)
	assert.Equal(t, []string{"authorization", "x-client-info", "apikey", "content-type"}, c.Server.CORSAllowedHeaders)
	assert.Equal(t, "/auth", c.Routes.SignIn)
	assert.Equal(t, "/caregiver", c.Routes.Caregiver)
	assert.Equal(t, "/patient", c.Routes.Patient)
	assert.Equal(t, 10, c.Rate.SignIn.Limit)
	assert.Equal(t, time.Hour, c.JWT.AccessTTL)
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
server:
  addr: ":9090"
storage:
  driver: postgres
  dsn: postgres://u:p@localhost/elderwatch
jwt:
  access_ttl: 15m
routes:
  caregiver: /c
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("RATE_PROVISION_LIMIT", "3")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", c.Server.Addr)
	assert.Equal(t, "postgres", c.Storage.Driver)
	assert.Equal(t, 15*time.Minute, c.JWT.AccessTTL)
	assert.Equal(t, "/c", c.Routes.Caregiver)
	assert.Equal(t, 3, c.Rate.Provision.Limit)
	assert.Equal(t, time.Minute, c.Rate.Provision.Window)
}

func TestValidate(t *testing.T) {
	t.Run("postgres without dsn", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "postgres")
		_, err := Load("")
		require.Error(t, err)
	})
	t.Run("redis cache without addr", func(t *testing.T) {
		t.Setenv("CACHE_KIND", "redis")
		_, err := Load("")
		require.Error(t, err)
	})
	t.Run("prod requires secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "prod")
		_, err := Load("")
		require.Error(t, err)

		t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
		_, err = Load("")
		require.NoError(t, err)
	})
}

func TestGetEnvCSV(t *testing.T) {
	t.Setenv("X_CSV", " a, ,b ,c")
	v, ok := getEnvCSV("X_CSV")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, v)
}
