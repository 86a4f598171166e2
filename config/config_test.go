// Copyright (c) 2026 Revenue Share Labs
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testOwner = "0x0101010101010101010101010101010101010101"

// ---------------------------------------------------------------------------
// DefaultConfig tests
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.RegistryFile != "factory.db" {
		t.Errorf("RegistryFile = %q, want %q", cfg.RegistryFile, "factory.db")
	}
	if cfg.PlatformFee != 0 {
		t.Errorf("PlatformFee = %d, want 0", cfg.PlatformFee)
	}
	// DataDir should end with .invoiced (we don't assert the full path
	// since it depends on the home directory).
	if !strings.HasSuffix(cfg.DataDir, ".invoiced") {
		t.Errorf("DataDir = %q, want .invoiced suffix", cfg.DataDir)
	}
	if got, want := cfg.RegistryPath(), filepath.Join(cfg.DataDir, "factory.db"); got != want {
		t.Errorf("RegistryPath = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// SaveConfig / LoadConfig round-trip tests
// ---------------------------------------------------------------------------

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	original := Config{
		DataDir:        "/tmp/test-invoiced",
		RegistryFile:   "registry.db",
		Owner:          testOwner,
		PlatformWallet: "0x5555555555555555555555555555555555555555",
		PlatformFee:    5_000_000,
	}

	if err := SaveConfig(path, original); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"DataDir", loaded.DataDir, original.DataDir},
		{"RegistryFile", loaded.RegistryFile, original.RegistryFile},
		{"Owner", loaded.Owner, original.Owner},
		{"PlatformWallet", loaded.PlatformWallet, original.PlatformWallet},
		{"PlatformFee", loaded.PlatformFee, original.PlatformFee},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}
}

func TestSaveConfigCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config")

	cfg := DefaultConfig()
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Config file not created: %v", err)
	}
}

// ---------------------------------------------------------------------------
// LoadConfig error tests
// ---------------------------------------------------------------------------

func TestLoadConfigNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig nonexistent: got %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfigInvalidLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	content := "this-is-not-key-value\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfigLine) {
		t.Errorf("LoadConfig bad line: got %v, want ErrInvalidConfigLine", err)
	}
}

func TestLoadConfigBadFee(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	content := "platformfee = not-a-number\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfigLine) {
		t.Errorf("LoadConfig bad fee: got %v, want ErrInvalidConfigLine", err)
	}
}

func TestLoadConfigCommentsAndBlanks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	content := `# This is a comment
owner = ` + testOwner + `

# Another comment
platformfee = 100000
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Owner != testOwner {
		t.Errorf("Owner = %q, want %q", cfg.Owner, testOwner)
	}
	if cfg.PlatformFee != 100000 {
		t.Errorf("PlatformFee = %d, want 100000", cfg.PlatformFee)
	}
	// Unset fields should retain defaults.
	if cfg.RegistryFile != "factory.db" {
		t.Errorf("RegistryFile = %q, want default %q", cfg.RegistryFile, "factory.db")
	}
}

func TestLoadConfigUnknownKeysIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	content := "futurekey = futurevalue\nowner = " + testOwner + "\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig with unknown key: %v", err)
	}
	if cfg.Owner != testOwner {
		t.Errorf("Owner = %q, want %q", cfg.Owner, testOwner)
	}
}

// ---------------------------------------------------------------------------
// ValidateConfig tests
// ---------------------------------------------------------------------------

func TestValidateConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Owner = testOwner
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("ValidateConfig = %v, want nil", err)
	}

	cfg.PlatformWallet = "0x5555555555555555555555555555555555555555"
	cfg.PlatformFee = 10_000_000
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("ValidateConfig with wallet and max fee = %v, want nil", err)
	}
}

func TestValidateConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"empty datadir", func(c *Config) { c.DataDir = "" }, ErrEmptyDataDir},
		{"empty registry file", func(c *Config) { c.RegistryFile = "" }, ErrEmptyRegistryFile},
		{"missing owner", func(c *Config) { c.Owner = "" }, ErrInvalidOwner},
		{"malformed owner", func(c *Config) { c.Owner = "0xzz" }, ErrInvalidOwner},
		{"short owner", func(c *Config) { c.Owner = "0x0101" }, ErrInvalidOwner},
		{"null owner", func(c *Config) {
			c.Owner = "0x0000000000000000000000000000000000000000"
		}, ErrInvalidOwner},
		{"malformed wallet", func(c *Config) { c.PlatformWallet = "bogus" }, ErrInvalidWallet},
		{"fee over 100%", func(c *Config) { c.PlatformFee = 10_000_001 }, ErrInvalidFee},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Owner = testOwner
			tc.modify(&cfg)
			if err := ValidateConfig(cfg); !errors.Is(err, tc.wantErr) {
				t.Errorf("ValidateConfig = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
