package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"SERVER_HOST", "SERVER_PORT", "SERVER_ENV",
	"DATABASE_DRIVER", "DATABASE_URL", "JWT_SECRET", "JWT_TTL",
	"STORAGE_TYPE", "STORAGE_BASE_PATH", "STORAGE_BASE_URL", "S3_BUCKET",
	"REDIS_URL", "QUEUE_MAX_RETRY", "CORS_ALLOWED_ORIGINS",
}

// clearEnv blanks every variable Load reads; blank values are ignored.
func clearEnv(t *testing.T) {
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
}

func TestLoad_EnvOnlyAppliesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "/uploads", cfg.Storage.BaseURL)
	assert.Equal(t, 60*24, cfg.JWT.TTL)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxSize)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5, cfg.Queue.MaxRetry)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
  env: production
database:
  driver: postgres
  url: postgres://localhost/app
jwt:
  secret: from-file
storage:
  type: s3
  bucket: pictures
`), 0o600))

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "pictures", cfg.Storage.Bucket)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"DATABASE_URL": "x"}},
		{"missing dsn", map[string]string{"JWT_SECRET": "s"}},
		{"bad driver", map[string]string{"DATABASE_DRIVER": "oracle", "DATABASE_URL": "x", "JWT_SECRET": "s"}},
		{"s3 without bucket", map[string]string{"DATABASE_URL": "x", "JWT_SECRET": "s", "STORAGE_TYPE": "s3"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			assert.Error(t, err)
		})
	}
}
