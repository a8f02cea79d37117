// Package config loads the service configuration from the environment
// and an optional config file.
package config

import (
	"fmt"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds everything the catalog service needs at startup.
type Config struct {
	// DatabaseURL is a postgres connection string. When empty the service
	// falls back to a local sqlite file (SQLitePath).
	DatabaseURL string `mapstructure:"database_url"`
	Port        string `mapstructure:"port"`
	CORSOrigin  string `mapstructure:"cors_origin"`
	// RedisAddr enables the featured-products cache when set (host:port).
	RedisAddr  string `mapstructure:"redis_addr"`
	UploadDir  string `mapstructure:"upload_dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// DefaultConfig returns a Config populated with development defaults.
func DefaultConfig() *Config {
	return &Config{
		DatabaseURL: "",
		Port:        "3000",
		CORSOrigin:  "*",
		RedisAddr:   "",
		UploadDir:   "uploads",
		SQLitePath:  "database.db",
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.DatabaseURL == "" && c.SQLitePath == "" {
		return fmt.Errorf("either database_url or sqlite_path must be set")
	}
	if c.UploadDir == "" {
		return fmt.Errorf("upload_dir must not be empty")
	}
	return nil
}

// Load reads configuration from environment variables (DATABASE_URL, PORT,
// CORS_ORIGIN, REDIS_ADDR, UPLOAD_DIR, SQLITE_PATH) layered over an optional
// config.yaml in the working directory.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path means
// "config.yaml if present".
func LoadFile(configFile string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("database_url", defaults.DatabaseURL)
	v.SetDefault("port", defaults.Port)
	v.SetDefault("cors_origin", defaults.CORSOrigin)
	v.SetDefault("redis_addr", defaults.RedisAddr)
	v.SetDefault("upload_dir", defaults.UploadDir)
	v.SetDefault("sqlite_path", defaults.SQLitePath)

	// Environment variables win over file values: database_url -> DATABASE_URL
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// A missing file is fine, env + defaults cover everything
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}
