package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for the configuration file.
const DefaultPath = "config/config.yaml"

const (
	defaultCacheTTL        = 5 * time.Minute
	defaultCacheMaxEntries = 128
)

// Config represents the complete application configuration
type Config struct {
	Google   GoogleConfig   `yaml:"google"`
	Download DownloadConfig `yaml:"download"`
	Search   SearchConfig   `yaml:"search"`
	Cache    CacheConfig    `yaml:"cache"`
}

// GoogleConfig contains Google API settings
type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
}

// DownloadConfig contains download destination settings
type DownloadConfig struct {
	Directory        string `yaml:"directory"`
	AcknowledgeAbuse bool   `yaml:"acknowledge_abuse"`
}

// SearchConfig bounds corpus-wide searches
type SearchConfig struct {
	// ResultCap limits how many files a scan may visit before giving
	// up; zero scans everything.
	ResultCap int `yaml:"result_cap"`
}

// CacheConfig controls the drive and folder resolution cache
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	// TTL is a Go duration string such as "5m".
	TTL        string `yaml:"ttl"`
	MaxEntries int    `yaml:"max_entries"`
}

// TTLDuration parses the configured TTL, falling back to the default
// when unset.
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	if c.TTL == "" {
		return defaultCacheTTL, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", c.TTL, err)
	}
	return d, nil
}

// Entries returns the configured cache size, falling back to the
// default when unset.
func (c CacheConfig) Entries() int {
	if c.MaxEntries <= 0 {
		return defaultCacheMaxEntries
	}
	return c.MaxEntries
}

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects values that would otherwise fail deep inside a
// download.
func (c *Config) Validate() error {
	if _, err := c.Cache.TTLDuration(); err != nil {
		return err
	}
	if c.Search.ResultCap < 0 {
		return fmt.Errorf("search result_cap must not be negative, got %d", c.Search.ResultCap)
	}
	return nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
