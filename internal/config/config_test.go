package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"household-app-go/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AUTH_SKIP", "true")
	for _, key := range []string{"HTTP_PORT", "STORAGE_DRIVER", "DB_NAME", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, "household_app", cfg.DB.Name)
	assert.Equal(t, 30*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, 5*time.Second, cfg.Auth.Timeout)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 1024, cfg.Cache.Size)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	content := "HTTP_PORT=9090\nSTORAGE_DRIVER=memory\nAUTH_JWT_SECRET=from-file\nCORS_ALLOWED_ORIGINS=http://a.test, http://b.test\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte(content), 0o600))
	chdir(t, nested)

	t.Setenv("HTTP_PORT", "7070")
	for _, key := range []string{"AUTH_JWT_SECRET", "STORAGE_DRIVER", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.HTTPPort)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
}

func TestValidate(t *testing.T) {
	cfg := Config{StorageDriver: "sqlite", Auth: AuthConfig{SkipAuth: true}}
	assert.Error(t, cfg.Validate())

	cfg = Config{StorageDriver: StorageDriverMemory}
	assert.Error(t, cfg.Validate())

	cfg.Auth.JWTSecret = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestGetDSN(t *testing.T) {
	cfg := DBConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", TimeZone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.GetDSN())

	cfg.DSN = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.GetDSN())
}
