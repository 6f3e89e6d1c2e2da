// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	// Global is a singleton instance
	Global PartgraphConfig
	once   sync.Once

	// pathOverride redirects the config file location in tests.
	pathOverride string
)

// Path returns the location of the configuration file.
func Path() string {
	if pathOverride != "" {
		return pathOverride
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".partgraph", "partgraph.yaml")
	}
	return filepath.Join(home, ".partgraph", "partgraph.yaml")
}

// Load ensures the config is loaded into the Global variable.
//
// The first call reads (creating on first run) and validates the
// file; later calls are no-ops returning the first result.
func Load() error {
	var err error
	once.Do(func() {
		err = loadInternal(&Global, Path())
	})
	return err
}

func loadInternal(cfg *PartgraphConfig, configPath string) error {
	// create it if it doesn't exist
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "First run detected, creating the config at %s\n", configPath)
		if err := createDefault(configPath); err != nil {
			return err
		}
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read the config file: %w", err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse the config file %s: %w", configPath, err)
	}
	applyDefaults(cfg)
	return cfg.Validate()
}

func applyDefaults(cfg *PartgraphConfig) {
	if cfg.Tenants == nil {
		cfg.Tenants = map[string]TenantConfig{}
	}
	if cfg.HTTP.RequestTimeoutSeconds <= 0 {
		cfg.HTTP.RequestTimeoutSeconds = DefaultRequestTimeoutSeconds
	}
	if cfg.HTTP.TokenTimeoutSeconds <= 0 {
		cfg.HTTP.TokenTimeoutSeconds = DefaultTokenTimeoutSeconds
	}
}

func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	defaultCfg := DefaultConfig()
	data, err := yaml.Marshal(defaultCfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
