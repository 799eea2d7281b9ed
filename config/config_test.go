package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unset clears key for the duration of the test.
func unset(t *testing.T, keys ...string) {
	for _, key := range keys {
		t.Setenv(key, "") // restores the original value on cleanup
		os.Unsetenv(key)
	}
}

var keys = []string{
	"FOLIO_DATA_DIR", "FOLIO_LOG_LEVEL", "FOLIO_CACHE_TTL",
	"FOLIO_EODHD_API_KEY", "FOLIO_EODHD_BASE_URL", "FOLIO_EODHD_EXCHANGE",
	"FOLIO_REDIS_ADDR", "FOLIO_REDIS_PASSWORD", "FOLIO_REDIS_DB", "FOLIO_HTTP_CACHE_DIR",
}

func TestLoad_Defaults(t *testing.T) {
	unset(t, keys...)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 12*time.Hour, cfg.CacheTTL)
	assert.Equal(t, "https://eodhd.com/api", cfg.EODHD.BaseURL)
	assert.Equal(t, "US", cfg.EODHD.Exchange)
	assert.Empty(t, cfg.EODHD.APIKey)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, os.TempDir(), cfg.HTTP.CacheDir)
}

func TestLoad_Environment(t *testing.T) {
	unset(t, keys...)
	t.Setenv("FOLIO_DATA_DIR", "/srv/folio")
	t.Setenv("FOLIO_CACHE_TTL", "30m")
	t.Setenv("FOLIO_EODHD_API_KEY", "secret")
	t.Setenv("FOLIO_REDIS_ADDR", "localhost:6379")
	t.Setenv("FOLIO_REDIS_DB", "2")
	t.Setenv("FOLIO_HTTP_CACHE_DIR", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/folio", cfg.DataDir)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "secret", cfg.EODHD.APIKey)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Empty(t, cfg.HTTP.CacheDir)
}

func TestLoad_DotEnv(t *testing.T) {
	unset(t, keys...)
	t.Setenv("FOLIO_LOG_LEVEL", "debug") // the environment wins over .env
	env := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(env, []byte("FOLIO_EODHD_API_KEY=fromfile\nFOLIO_LOG_LEVEL=error\n"), 0o600))

	cfg, err := Load(env)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.EODHD.APIKey)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]struct {
		key, value string
		want       string
	}{
		"empty data dir": {"FOLIO_DATA_DIR", "", "data dir cannot be empty"},
		"negative ttl":   {"FOLIO_CACHE_TTL", "-1h", "cache ttl must be positive"},
		"log level":      {"FOLIO_LOG_LEVEL", "loud", `unknown log level "loud"`},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			unset(t, keys...)
			t.Setenv(tc.key, tc.value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
