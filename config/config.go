// Package config loads, validates, and persists the daemon configuration.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configSubdir   = "config"
	configFileName = "htlcd_config.json"
)

//go:embed default_config.json
var defaultConfigJSON []byte

func validateConfig(cfg *Config) error {
	// Validate log level
	if cfg.LogLevel < 0 || cfg.LogLevel > 5 {
		return fmt.Errorf("log level must be between 0 and 5")
	}

	// Validate log format
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("log format must be 'json' or 'console'")
	}

	// Set defaults for ledger config
	if cfg.ModuleAccount == "" {
		cfg.ModuleAccount = "htlc_module"
	}
	if cfg.NativeAssetID == "" {
		cfg.NativeAssetID = "native"
	}
	if cfg.MinDeadlineMarginSeconds == 0 {
		cfg.MinDeadlineMarginSeconds = 60
	}
	if cfg.MinDeadlineMarginSeconds < 0 {
		return fmt.Errorf("min_deadline_margin_seconds must not be negative")
	}
	if cfg.PayoutIntervalSeconds == 0 {
		cfg.PayoutIntervalSeconds = 5
	}

	// The owner account gates every admin operation; refusing to start
	// without one beats starting with an open admin surface.
	if cfg.OwnerAccount == "" {
		return fmt.Errorf("owner_account is required")
	}
	if cfg.OwnerAccount == cfg.ModuleAccount {
		return fmt.Errorf("owner_account must differ from module_account")
	}

	// Set defaults for query server
	if cfg.QueryServerPort == 0 {
		cfg.QueryServerPort = 8080
	}

	return nil
}

// Save writes the given config to <basePath>/config/htlcd_config.json.
func Save(cfg *Config, basePath string) error {
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	configDir := filepath.Join(basePath, configSubdir)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configDir, configFileName)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Load reads, validates, and returns the config from
// <basePath>/config/htlcd_config.json.
func Load(basePath string) (Config, error) {
	configFile := filepath.Join(basePath, configSubdir, configFileName)
	data, err := os.ReadFile(filepath.Clean(configFile))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config file: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDefaultConfig loads the default configuration from embedded JSON.
// The result still needs an owner_account before it validates.
func LoadDefaultConfig() (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(defaultConfigJSON, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default config: %w", err)
	}
	return &cfg, nil
}
