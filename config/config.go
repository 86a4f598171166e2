// Copyright (c) 2026 Revenue Share Labs
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package config holds the runtime configuration of an invoice factory
// deployment: where the registry database lives and which platform
// globals a fresh factory starts with. The file format is plain
// "key = value" lines with # comments.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is the factory deployment configuration.
type Config struct {
	// DataDir is the directory holding the registry database.
	DataDir string

	// RegistryFile is the database file name inside DataDir.
	RegistryFile string

	// Owner is the hex-encoded address seeded as factory owner on a
	// fresh registry. Ignored when the registry already exists.
	Owner string

	// PlatformWallet is the hex-encoded initial fee wallet, empty for
	// none. Ignored when the registry already exists.
	PlatformWallet string

	// PlatformFee is the initial fee rate in parts per ten million.
	// Ignored when the registry already exists.
	PlatformFee uint64
}

// DefaultConfig returns the configuration defaults. Owner has no default
// and must be set before a fresh factory can be opened.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:      filepath.Join(home, ".invoiced"),
		RegistryFile: "factory.db",
	}
}

// RegistryPath returns the full path of the registry database file.
func (cfg Config) RegistryPath() string {
	return filepath.Join(cfg.DataDir, cfg.RegistryFile)
}

// LoadConfig reads a configuration file, filling unset keys from the
// defaults. Unknown keys are ignored so older binaries can read newer
// files.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineno, line)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "datadir":
			cfg.DataDir = value
		case "registryfile":
			cfg.RegistryFile = value
		case "owner":
			cfg.Owner = value
		case "platformwallet":
			cfg.PlatformWallet = value
		case "platformfee":
			fee, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return cfg, fmt.Errorf("%w: line %d: platformfee: %v", ErrInvalidConfigLine, lineno, err)
			}
			cfg.PlatformFee = fee
		default:
			// Unknown keys are ignored.
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the configuration to path, creating parent
// directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Invoice factory configuration\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "registryfile = %s\n", cfg.RegistryFile)
	fmt.Fprintf(&b, "owner = %s\n", cfg.Owner)
	fmt.Fprintf(&b, "platformwallet = %s\n", cfg.PlatformWallet)
	fmt.Fprintf(&b, "platformfee = %d\n", cfg.PlatformFee)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
