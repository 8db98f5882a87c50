package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Verify  VerifyConfig  `toml:"verify"`
	Ledger  LedgerConfig  `toml:"ledger"`
	Logging LoggingConfig `toml:"logging"`
}

type VerifyConfig struct {
	Strict     bool `toml:"strict"`
	MaxPayload int  `toml:"max_payload"`
}

type LedgerConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Defaults returns a Config with sane defaults.
func Defaults() *Config {
	return &Config{
		Verify: VerifyConfig{
			MaxPayload: 1 << 20,
		},
		Ledger: LedgerConfig{
			Path: "~/.publichex/ledger.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a TOML config file and returns the parsed Config.
// If path is empty, the default location is tried; a missing default file
// just yields defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		path = expandHome("~/.publichex/config.toml")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations that cannot be acted on.
func (c *Config) Validate() error {
	if c.Verify.MaxPayload <= 0 {
		return fmt.Errorf("verify.max_payload must be positive, got %d", c.Verify.MaxPayload)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of text, json", c.Logging.Format)
	}
	if c.Ledger.Enabled && c.Ledger.Path == "" {
		return fmt.Errorf("ledger.path is required when the ledger is enabled")
	}
	return nil
}

// ExpandHome resolves a leading ~/ to the user's home directory.
func ExpandHome(path string) string {
	return expandHome(path)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
