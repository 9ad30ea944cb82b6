package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultAPIBase = "http://localhost:8080/api"

type Config struct {
	APIBase        string        `yaml:"api_base"`
	StateFile      string        `yaml:"state_file"`
	ReportDir      string        `yaml:"report_dir"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Debug          bool          `yaml:"debug"`
}

// Load reads the optional YAML config file, then applies .env and
// environment overrides. A missing config file is not an error.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{
		APIBase:        defaultAPIBase,
		ReportDir:      ".",
		RequestTimeout: 30 * time.Second,
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if v := os.Getenv("COWORKLY_API_BASE"); v != "" {
		cfg.APIBase = v
	}
	if v := os.Getenv("COWORKLY_STATE_FILE"); v != "" {
		cfg.StateFile = v
	}
	if v := os.Getenv("COWORKLY_REPORT_DIR"); v != "" {
		cfg.ReportDir = v
	}
	if v := os.Getenv("COWORKLY_DEBUG"); v == "1" || v == "true" {
		cfg.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// DefaultPath is the per-user config file location.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("unable to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "coworkly", "config.yaml"), nil
}

func (c *Config) Validate() error {
	if c.APIBase == "" {
		return fmt.Errorf("api base URL is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	return nil
}
