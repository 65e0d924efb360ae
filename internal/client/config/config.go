package config

import (
	"fmt"
	"os"
	"time"

	"github.com/OkiljonDadakhanov/icho-platform/internal/flagx"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds runtime settings for the portal CLI.
type Config struct {
	// APIBaseURL is the root of the REST backend, e.g. https://api.icho.uz/api.
	// Left empty, the client still starts but every request fails.
	APIBaseURL string `yaml:"api_url" env:"ICHO_API_URL"`
	// PortalURL is the site whose routing layer reads the session cookies.
	// Empty means "same as APIBaseURL".
	PortalURL      string        `yaml:"portal_url"`
	DatabasePath   string        `yaml:"database_path"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogLevel       string        `yaml:"log_level"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = ""
	c.PortalURL = ""
	c.DatabasePath = "icho.db"
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the YAML file named by -c/-config (if
// any), then ICHO_API_URL, then command-line flags. Later sources win.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, flagx.ConfigFileFlag(args)); err != nil {
		return nil, err
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to overlay env: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file %q stat failed: %w", path, err)
	}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}
