package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Remote service settings
	Remote RemoteConfig `yaml:"remote"`

	// Invoice settings
	Invoice InvoiceConfig `yaml:"invoice"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

type RemoteConfig struct {
	BaseURL        string        `yaml:"base_url"`        // Remote service endpoint
	OwnerID        string        `yaml:"owner_id"`        // Account owner for timers/entries
	RequestTimeout time.Duration `yaml:"request_timeout"` // Per-call HTTP timeout
}

type InvoiceConfig struct {
	DefaultDueDays int `yaml:"default_due_days"` // Days until invoice due
}

type LoggingConfig struct {
	File  string `yaml:"file"`  // Rotated log file path
	Level string `yaml:"level"` // trace, debug, info, warn, error
}

// DefaultConfigPath returns ~/.config/opsdesk/config.yaml
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "opsdesk", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "opsdesk", "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return &Config{
		Remote: RemoteConfig{
			BaseURL:        "https://api.opsdesk.example.com",
			RequestTimeout: 30 * time.Second,
		},
		Invoice: InvoiceConfig{
			DefaultDueDays: 30,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(homeDir, ".config", "opsdesk", "logs", "opsdesk.log"),
			Level: "info",
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the directories the app writes to (logs)
func (c *Config) EnsureDirectories() error {
	return os.MkdirAll(filepath.Dir(c.Logging.File), 0700)
}
