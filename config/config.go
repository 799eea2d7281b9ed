// Package config loads the application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	DataDir  string        `mapstructure:"data_dir"`
	LogLevel string        `mapstructure:"log_level"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	EODHD    EODHDConfig   `mapstructure:"eodhd"`
	Redis    RedisConfig   `mapstructure:"redis"`
	HTTP     HTTPConfig    `mapstructure:"http"`
}

type EODHDConfig struct {
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
	Exchange string `mapstructure:"exchange"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"` // empty disables the cache
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type HTTPConfig struct {
	CacheDir string `mapstructure:"cache_dir"` // empty disables the cache
}

// Load reads configuration from the .env files, environment variables
// prefixed with FOLIO_, and defaults. Missing .env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables already set.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("cannot load %s: %w", f, err)
		}
	}

	v := viper.New()
	v.SetDefault("data_dir", ".")
	v.SetDefault("log_level", "info")
	v.SetDefault("cache_ttl", "12h")
	v.SetDefault("eodhd.api_key", "")
	v.SetDefault("eodhd.base_url", "https://eodhd.com/api")
	v.SetDefault("eodhd.exchange", "US")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("http.cache_dir", os.TempDir())

	// "eodhd.api_key" -> "FOLIO_EODHD_API_KEY"
	v.SetEnvPrefix("folio")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	for _, key := range v.AllKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("cannot bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("invalid configuration: data dir cannot be empty")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("invalid configuration: cache ttl must be positive, got %v", c.CacheTTL)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid configuration: unknown log level %q", c.LogLevel)
	}
	return nil
}
