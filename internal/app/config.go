package app

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/shhac/schemadesk/internal/orchestrator"
	"github.com/shhac/schemadesk/internal/remote"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SCHEMADESK_DEBUG
const EnvPrefix = "SCHEMADESK"

// Config holds application-wide configuration.
type Config struct {
	// Debug enables debug logging and additional diagnostics
	Debug bool `mapstructure:"debug"`

	// StoragePath is the directory holding the local state file
	StoragePath string `mapstructure:"storage_path"`

	// MirrorRoot is the directory that receives the "Postman APIs" folder
	MirrorRoot string `mapstructure:"mirror_root"`

	APIBaseURL string `mapstructure:"api_base_url"`
	APIKey     string `mapstructure:"api_key"`

	RequestTimeoutSeconds int  `mapstructure:"request_timeout_seconds"`
	FanoutLimit           int  `mapstructure:"fanout_limit"`
	ValidateBeforePublish bool `mapstructure:"validate_before_publish"`
}

// DefaultConfig returns a configuration with sensible defaults. Empty paths
// are resolved to platform directories when the app is wired.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:            remote.DefaultBaseURL,
		RequestTimeoutSeconds: 30,
		FanoutLimit:           orchestrator.DefaultFanoutLimit,
		ValidateBeforePublish: true,
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/schemadesk/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// LoadConfig reads configuration from the YAML file at path and applies
// SCHEMADESK_* environment overrides. An empty path reads the default
// location, which may be absent; an explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetDefault("debug", cfg.Debug)
	v.SetDefault("storage_path", cfg.StoragePath)
	v.SetDefault("mirror_root", cfg.MirrorRoot)
	v.SetDefault("api_base_url", cfg.APIBaseURL)
	v.SetDefault("api_key", cfg.APIKey)
	v.SetDefault("request_timeout_seconds", cfg.RequestTimeoutSeconds)
	v.SetDefault("fanout_limit", cfg.FanoutLimit)
	v.SetDefault("validate_before_publish", cfg.ValidateBeforePublish)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if !missing || explicit {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and the API base URL
func (c *Config) Validate() error {
	if base := strings.TrimSpace(c.APIBaseURL); base != "" {
		parsed, err := url.Parse(base)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("api_base_url must include scheme and host (e.g. https://api.getpostman.com)")
		}
	}
	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("request_timeout_seconds must not be negative")
	}
	if c.FanoutLimit < 0 {
		return fmt.Errorf("fanout_limit must not be negative")
	}
	return nil
}

// RequestTimeout returns the per-request timeout
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
