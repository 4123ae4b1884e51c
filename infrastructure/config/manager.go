package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Errors for config management
var (
	ErrUnknownKey   = errors.New("unknown setting")
	ErrInvalidValue = errors.New("invalid value")
)

// Manager edits individual settings and writes the file back out
type Manager struct {
	config     *Config
	configPath string
}

// NewManager creates a new config manager
func NewManager(cfg *Config, configPath string) *Manager {
	return &Manager{
		config:     cfg,
		configPath: configPath,
	}
}

// Setting is one key of the configuration with its effective value
type Setting struct {
	Key   string
	Value string
}

// Settings returns every setting in display order. Values reflect what
// the commands would actually use, so unset cache fields show their
// defaults.
func (m *Manager) Settings() []Setting {
	ttl := m.config.Cache.TTL
	if ttl == "" {
		ttl = defaultCacheTTL.String()
	}
	return []Setting{
		{Key: "google.credentials_file", Value: m.config.Google.CredentialsFile},
		{Key: "download.directory", Value: m.config.Download.Directory},
		{Key: "download.acknowledge_abuse", Value: strconv.FormatBool(m.config.Download.AcknowledgeAbuse)},
		{Key: "search.result_cap", Value: strconv.Itoa(m.config.Search.ResultCap)},
		{Key: "cache.enabled", Value: strconv.FormatBool(m.config.Cache.Enabled)},
		{Key: "cache.ttl", Value: ttl},
		{Key: "cache.max_entries", Value: strconv.Itoa(m.config.Cache.Entries())},
	}
}

// Set validates and changes one setting, then saves the file
func (m *Manager) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	switch key {
	case "google.credentials_file":
		if value == "" {
			return fmt.Errorf("%w: credentials file must not be empty", ErrInvalidValue)
		}
		m.config.Google.CredentialsFile = value

	case "download.directory":
		if value == "" {
			return fmt.Errorf("%w: download directory must not be empty", ErrInvalidValue)
		}
		m.config.Download.Directory = value

	case "download.acknowledge_abuse":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %q is not true or false", ErrInvalidValue, value)
		}
		m.config.Download.AcknowledgeAbuse = b

	case "search.result_cap":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %q is not a non-negative number", ErrInvalidValue, value)
		}
		m.config.Search.ResultCap = n

	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %q is not true or false", ErrInvalidValue, value)
		}
		m.config.Cache.Enabled = b

	case "cache.ttl":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%w: %q is not a duration like 5m or 1h", ErrInvalidValue, value)
		}
		m.config.Cache.TTL = value

	case "cache.max_entries":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %q is not a non-negative number", ErrInvalidValue, value)
		}
		m.config.Cache.MaxEntries = n

	default:
		return fmt.Errorf("%w: %q. Run 'gdrive-downloader config show' to see the keys", ErrUnknownKey, key)
	}

	return Save(m.config, m.configPath)
}
