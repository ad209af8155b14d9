// Package config provides Viper-based configuration management for paytrackctl
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete paytrackctl configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Wallet  WalletConfig  `mapstructure:"wallet"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

// APIConfig contains backend connection settings
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds each round trip; zero means no client timeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig contains session persistence settings
type SessionConfig struct {
	// Dir holds the credentials file and cookie jar.
	Dir string `mapstructure:"dir"`
}

// WalletConfig contains wallet screen settings
type WalletConfig struct {
	// PageSize is the transactions-per-page request; zero uses the
	// server default. The backend caps it at 100.
	PageSize int `mapstructure:"page_size"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Colors bool `mapstructure:"colors"`
}

// Load reads configuration from file and environment variables
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Search paths for .paytrackctl.yaml
		v.SetConfigName(".paytrackctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/paytrackctl")
	}

	// Environment variables (PAYTRACK_API_BASE_URL and friends)
	v.SetEnvPrefix("PAYTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Session.Dir == "" {
		cfg.Session.Dir = defaultSessionDir()
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	// Local development backend
	v.SetDefault("api.base_url", "http://localhost:5000")
	v.SetDefault("api.timeout", time.Duration(0))

	v.SetDefault("wallet.page_size", 0)

	v.SetDefault("session.dir", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Output defaults
	v.SetDefault("output.colors", true)
}

// defaultSessionDir returns the per-user directory for persisted session
// files.
func defaultSessionDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "paytrackctl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".paytrackctl"
	}
	return filepath.Join(home, ".paytrackctl")
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}

	if cfg.Wallet.PageSize < 0 || cfg.Wallet.PageSize > 100 {
		return fmt.Errorf("invalid wallet page size: %d (must be 0-100)", cfg.Wallet.PageSize)
	}

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", cfg.Logging.Format)
	}

	return nil
}

// CredentialsPath returns the primary session sink location.
func (c *Config) CredentialsPath() string {
	return filepath.Join(c.Session.Dir, "credentials.json")
}

// CookieJarPath returns the secondary session sink location.
func (c *Config) CookieJarPath() string {
	return filepath.Join(c.Session.Dir, "cookies.txt")
}
