// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reachly/leadmatch/internal/common"
	"github.com/spf13/viper"
)

// Config is the full application configuration, populated from the config
// file, environment variables, and flags via viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// DatabaseConfig holds the SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// SMTPConfig holds the outbound mail relay settings. With Enabled false the
// application logs notifications instead of delivering them.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	Port     int    `mapstructure:"port"`
	Enabled  bool   `mapstructure:"enabled"`
}

// AdminConfig holds addresses for administrative notifications.
type AdminConfig struct {
	Email string `mapstructure:"email"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers every default on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("database.path", "~/.reachly/reachly.db")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.enabled", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load unmarshals and validates the configuration from a viper instance.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Database.Path = ExpandPath(cfg.Database.Path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr: %w", common.ErrMissingConfig)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path: %w", common.ErrMissingConfig)
	}
	if c.Admin.Email == "" {
		return fmt.Errorf("admin.email: %w", common.ErrMissingConfig)
	}
	if c.SMTP.Enabled {
		if c.SMTP.Host == "" {
			return fmt.Errorf("smtp.host required when smtp is enabled: %w", common.ErrMissingConfig)
		}
		if c.SMTP.From == "" {
			return fmt.Errorf("smtp.from required when smtp is enabled: %w", common.ErrMissingConfig)
		}
		if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
			return fmt.Errorf("smtp.port %d out of range: %w", c.SMTP.Port, common.ErrInvalidConfig)
		}
	}
	return nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
