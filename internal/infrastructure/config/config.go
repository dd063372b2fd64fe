package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"
)

// Config represents the application configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Source SourceConfig `yaml:"source"`
	Guide  GuideConfig  `yaml:"guide"`
	Auth   AuthConfig   `yaml:"auth"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	TLS            TLSConfig     `yaml:"tls"`
}

// TLSConfig contains TLS settings
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// SourceConfig contains the XMLTV feed settings
type SourceConfig struct {
	URL         string        `yaml:"url"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxBodySize int64         `yaml:"max_body_size"`
}

// GuideConfig contains refresh and query settings
type GuideConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	Lookahead       time.Duration `yaml:"lookahead"`
	// Primetime is a wall-clock HH:MM or HH:MM:SS time.
	Primetime string `yaml:"primetime"`
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	Enabled      bool     `yaml:"enabled"`
	AdminUser    string   `yaml:"admin_user"`
	AdminPass    string   `yaml:"admin_pass"`
	GuestEnabled bool     `yaml:"guest_enabled"`
	GuestUser    string   `yaml:"guest_user"`
	GuestPass    string   `yaml:"guest_pass"`
	LocalNets    []string `yaml:"local_nets"`
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	// Set defaults
	cfg := &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		Source: SourceConfig{
			Timeout:     120 * time.Second,
			MaxBodySize: 100 << 20, // 100 MB
		},
		Guide: GuideConfig{
			RefreshInterval: 12 * time.Hour,
			Lookahead:       15 * time.Minute,
			Primetime:       "20:15",
		},
		Auth: AuthConfig{
			Enabled:      false,
			AdminUser:    "admin",
			AdminPass:    "admin",
			GuestEnabled: false,
			LocalNets:    []string{},
		},
	}

	// If config file exists, load it. A missing file leaves the defaults in
	// place; validation then points at whatever is still unset (the source
	// URL has no usable default).
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Source.URL == "" {
		return fmt.Errorf("source url is required")
	}
	u, err := url.Parse(c.Source.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid source url: %q (must be http or https)", c.Source.URL)
	}

	if c.Source.Timeout <= 0 {
		return fmt.Errorf("source timeout must be positive: %v", c.Source.Timeout)
	}
	if c.Source.MaxBodySize <= 0 {
		return fmt.Errorf("source max body size must be positive: %d", c.Source.MaxBodySize)
	}

	if c.Guide.RefreshInterval <= 0 {
		return fmt.Errorf("guide refresh interval must be positive: %v", c.Guide.RefreshInterval)
	}
	if c.Guide.Lookahead < 0 {
		return fmt.Errorf("guide lookahead must not be negative: %v", c.Guide.Lookahead)
	}
	if err := validatePrimetime(c.Guide.Primetime); err != nil {
		return err
	}

	if c.Server.TLS.Enabled {
		if c.Server.TLS.CertFile == "" {
			return fmt.Errorf("TLS cert file is required when TLS is enabled")
		}
		if c.Server.TLS.KeyFile == "" {
			return fmt.Errorf("TLS key file is required when TLS is enabled")
		}
	}

	if c.Auth.Enabled {
		if c.Auth.AdminUser == "" {
			return fmt.Errorf("admin user is required when auth is enabled")
		}
		if c.Auth.AdminPass == "" {
			return fmt.Errorf("admin password is required when auth is enabled")
		}
	}

	return nil
}

// validatePrimetime accepts HH:MM or HH:MM:SS. An empty value falls back to
// the default at query time, so it passes here.
func validatePrimetime(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if _, err := time.Parse(layout, v); err == nil {
			return nil
		}
	}
	return fmt.Errorf("invalid guide primetime: %q (must be HH:MM or HH:MM:SS)", v)
}

// Save saves the configuration to a YAML file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
