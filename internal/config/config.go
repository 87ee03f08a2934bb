// Package config provides demo-server configuration management using Viper.
// It supports loading from environment variables, config files, and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all demo-server configuration.
type Config struct {
	Server ServerConfig
	Log    LogConfig
	Access AccessConfig
	Auth   AuthConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Addr returns the listen address as host:port.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig holds application logging settings.
type LogConfig struct {
	Level       string
	Format      string
	Environment string
}

// AccessConfig holds access-line output settings.
type AccessConfig struct {
	// Output is "stderr", "stdout", or a file path.
	Output string
}

// AuthConfig holds basic-auth settings for the demo routes.
type AuthConfig struct {
	Enabled bool
	// Users maps login names to bcrypt password hashes.
	Users map[string]string
}

// Load reads configuration from environment variables and config files.
// Environment variables (REQLOG_*) take precedence over config file values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/reqlog")

	v.SetEnvPrefix("REQLOG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configNotFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFoundErr) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			IdleTimeout:     v.GetDuration("server.idle_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Log: LogConfig{
			Level:       v.GetString("log.level"),
			Format:      v.GetString("log.format"),
			Environment: v.GetString("log.env"),
		},
		Access: AccessConfig{
			Output: v.GetString("access.output"),
		},
		Auth: AuthConfig{
			Enabled: v.GetBool("auth.enabled"),
			Users:   v.GetStringMapString("auth.users"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Access.Output == "" {
		return errors.New("access.output must not be empty")
	}
	if c.Auth.Enabled && len(c.Auth.Users) == 0 {
		return errors.New("auth.enabled requires at least one entry in auth.users")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.env", "development")

	v.SetDefault("access.output", "stderr")

	v.SetDefault("auth.enabled", false)
}
