// Package config loads service configuration from environment variables and
// an optional YAML file via viper. Environment variables win over the file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full server configuration.
type Config struct {
	// HTTP
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// Database
	DatabaseURL string `mapstructure:"database_url"`
	MaxConns    int32  `mapstructure:"max_conns"`
	MinConns    int32  `mapstructure:"min_conns"`

	// Auth
	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTTTL    time.Duration `mapstructure:"jwt_ttl"`

	// Logging
	LogLevel    string `mapstructure:"log_level"`
	Development bool   `mapstructure:"development"`

	// Field-catalog cache
	CacheReadTimeout time.Duration `mapstructure:"cache_read_timeout"`
}

// Load reads configuration from the given file (optional) and TRADEREG_*
// environment variables.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("read_timeout", 15*time.Second)
	v.SetDefault("write_timeout", 30*time.Second)
	v.SetDefault("max_conns", int32(25))
	v.SetDefault("min_conns", int32(5))
	v.SetDefault("jwt_ttl", 12*time.Hour)
	v.SetDefault("log_level", "info")
	v.SetDefault("development", false)
	v.SetDefault("cache_read_timeout", 200*time.Millisecond)

	v.SetEnvPrefix("TRADEREG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database_url is required (TRADEREG_DATABASE_URL)")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt_secret is required (TRADEREG_JWT_SECRET)")
	}

	return cfg, nil
}
