package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Scanning ScanningConfig `yaml:"scanning"`

	Relay RelayConfig `yaml:"relay"`

	Output OutputConfig `yaml:"output"`
}

type ScanningConfig struct {
	Timeout         time.Duration `yaml:"timeout"`
	UserAgent       string        `yaml:"user_agent"`
	FollowRedirects bool          `yaml:"follow_redirects"`
	MaxRedirects    int           `yaml:"max_redirects"`
	VerifySSL       bool          `yaml:"verify_ssl"`
	MaxBodySize     int64         `yaml:"max_body_size"`
	Proxy           string        `yaml:"proxy"`
}

// RelayConfig bounds every call from the controller into a collaborator
type RelayConfig struct {
	CallTimeout time.Duration `yaml:"call_timeout"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
	Color  bool   `yaml:"color"`
}

// envPrefix namespaces every environment override
const envPrefix = "RSCSENTINEL_"

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	return LoadFrom(defaultPaths())
}

// LoadFrom loads the first existing file among paths on top of the defaults
func LoadFrom(paths []string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(cfg, paths); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Scanning: ScanningConfig{
			Timeout:         15 * time.Second,
			UserAgent:       "rsc-sentinel/1.0",
			FollowRedirects: true,
			MaxRedirects:    10,
			VerifySSL:       true,
			MaxBodySize:     2 << 20,
		},
		Relay: RelayConfig{
			CallTimeout: 10 * time.Second,
		},
		Output: OutputConfig{
			Format: "table",
			Color:  true,
		},
	}
}

func defaultPaths() []string {
	return []string{
		"./configs/default.yaml",
		expandPath("~/.rsc-sentinel.yaml"),
		"/etc/rsc-sentinel/config.yaml",
	}
}

func loadFromFile(cfg *Config, paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}

		return nil
	}

	// No config file found, use defaults
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(envPrefix + "PROXY"); v != "" {
		cfg.Scanning.Proxy = v
	}
	if v := os.Getenv(envPrefix + "USER_AGENT"); v != "" {
		cfg.Scanning.UserAgent = v
	}
	if v := os.Getenv(envPrefix + "TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Scanning.Timeout = d
		}
	}
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	if c.Scanning.Timeout < time.Second || c.Scanning.Timeout > 5*time.Minute {
		return fmt.Errorf("invalid scanning.timeout: must be between 1s and 5m")
	}

	if c.Relay.CallTimeout <= 0 {
		return fmt.Errorf("invalid relay.call_timeout: must be positive")
	}

	if c.Scanning.MaxBodySize <= 0 {
		return fmt.Errorf("invalid scanning.max_body_size: must be positive")
	}

	switch strings.ToLower(c.Output.Format) {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("invalid output.format %q: must be table, json or yaml", c.Output.Format)
	}

	if c.Scanning.Proxy != "" {
		if !strings.HasPrefix(c.Scanning.Proxy, "http://") &&
			!strings.HasPrefix(c.Scanning.Proxy, "https://") &&
			!strings.HasPrefix(c.Scanning.Proxy, "socks5://") {
			return fmt.Errorf("invalid scanning.proxy %q: unsupported scheme", c.Scanning.Proxy)
		}
	}

	return nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
