package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KEEPER_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.APIProjectListLimitMax != 1000 {
		t.Errorf("APIProjectListLimitMax = %d, want 1000", cfg.APIProjectListLimitMax)
	}
	if !cfg.AuditEnabled {
		t.Error("AuditEnabled should default to true")
	}
	if cfg.Source("trusted_proxies") != "default" {
		t.Errorf("Source(trusted_proxies) = %q, want default", cfg.Source("trusted_proxies"))
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("KEEPER_CONFIG_PATH", dir)

	content := "trusted_proxies:\n  - 10.0.0.0/8\ndirectory_url: ldap://dc01.example.com:389\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Source("trusted_proxies") != "file" {
		t.Errorf("Source(trusted_proxies) = %q, want file", cfg.Source("trusted_proxies"))
	}
	if cfg.DirectoryURL != "ldap://dc01.example.com:389" {
		t.Errorf("DirectoryURL = %q", cfg.DirectoryURL)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("KEEPER_CONFIG_PATH", dir)
	t.Setenv("KEEPER_DIRECTORY_URL", "ldap://dc02.example.com:389")

	content := "directory_url: ldap://dc01.example.com:389\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DirectoryURL != "ldap://dc02.example.com:389" {
		t.Errorf("DirectoryURL = %q, want environment value", cfg.DirectoryURL)
	}
	if cfg.Source("directory_url") != "environment" {
		t.Errorf("Source(directory_url) = %q, want environment", cfg.Source("directory_url"))
	}
}

func TestIsTrustedProxy(t *testing.T) {
	cfg := newDefault()
	cfg.TrustedProxies = []string{"10.0.0.0/8", "192.168.1.1"}

	tests := []struct {
		ip   string
		want bool
	}{
		{"10.1.2.3", true},
		{"192.168.1.1", true},
		{"172.16.0.1", false},
		{"not-an-ip", false},
	}

	for _, tt := range tests {
		if got := cfg.IsTrustedProxy(tt.ip); got != tt.want {
			t.Errorf("IsTrustedProxy(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := newDefault()
	cfg.TrustedProxies = []string{"10.0.0.0/8"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	cfg.TrustedProxies = []string{"garbage"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid trusted proxy")
	}
}
