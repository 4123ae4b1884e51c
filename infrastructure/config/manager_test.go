package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func managerFixture(t *testing.T) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{}
	cfg.Google.CredentialsFile = "credentials.json"
	cfg.Download.Directory = "."
	return NewManager(cfg, path), path
}

func TestManagerSetSavesTheFile(t *testing.T) {
	mgr, path := managerFixture(t)

	if err := mgr.Set("download.directory", "/downloads"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Download.Directory != "/downloads" {
		t.Errorf("expected directory /downloads, got %q", cfg.Download.Directory)
	}
}

func TestManagerSetParsesTypedValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(*Config) bool
	}{
		{"bool", "download.acknowledge_abuse", "true", func(c *Config) bool { return c.Download.AcknowledgeAbuse }},
		{"int", "search.result_cap", "2500", func(c *Config) bool { return c.Search.ResultCap == 2500 }},
		{"duration", "cache.ttl", "10m", func(c *Config) bool { return c.Cache.TTL == "10m" }},
		{"cache toggle", "cache.enabled", "true", func(c *Config) bool { return c.Cache.Enabled }},
		{"cache size", "cache.max_entries", "64", func(c *Config) bool { return c.Cache.MaxEntries == 64 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, path := managerFixture(t)
			if err := mgr.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set(%q, %q): %v", tt.key, tt.value, err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("value for %q did not round-trip", tt.key)
			}
		})
	}
}

func TestManagerSetRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-bool", "cache.enabled", "sometimes"},
		{"negative cap", "search.result_cap", "-1"},
		{"non-numeric cap", "search.result_cap", "lots"},
		{"bad duration", "cache.ttl", "soon"},
		{"empty directory", "download.directory", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, path := managerFixture(t)
			err := mgr.Set(tt.key, tt.value)
			if !errors.Is(err, ErrInvalidValue) {
				t.Fatalf("expected ErrInvalidValue, got %v", err)
			}
			// A rejected value must not reach the file
			if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
				t.Errorf("expected no file after a rejected set")
			}
		})
	}
}

func TestManagerSetUnknownKey(t *testing.T) {
	mgr, _ := managerFixture(t)

	err := mgr.Set("upload.chunk_size", "8")
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestManagerSettingsShowsDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Google.CredentialsFile = "credentials.json"
	mgr := NewManager(cfg, "")

	byKey := make(map[string]string)
	for _, s := range mgr.Settings() {
		byKey[s.Key] = s.Value
	}

	if byKey["cache.ttl"] != "5m0s" {
		t.Errorf("expected default ttl 5m0s, got %q", byKey["cache.ttl"])
	}
	if byKey["cache.max_entries"] != "128" {
		t.Errorf("expected default max entries 128, got %q", byKey["cache.max_entries"])
	}
	if byKey["download.acknowledge_abuse"] != "false" {
		t.Errorf("expected acknowledge_abuse false, got %q", byKey["download.acknowledge_abuse"])
	}
}
