// Package config handles configuration loading and validation
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/stride-gpt/stride-action/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Default config file names to search for
var defaultConfigFiles = []string{
	".stride-gpt.yaml",
	".stride-gpt.yml",
}

// Load loads configuration from a specific file path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to read config file: %s", path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to parse config file: %s", path), err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDefault searches for a config file in the current directory and its
// parents, falling back to environment-only configuration. This is the
// entry point used by the action: a checked-out repository may carry a
// .stride-gpt.yaml tuning the payload ceilings.
func LoadDefault() (*Config, error) {
	if path := os.Getenv("STRIDE_ACTION_CONFIG"); path != "" {
		return Load(path)
	}

	if path, ok := findInParents("."); ok {
		return Load(path)
	}

	cfg := &Config{}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findInParents searches for a config file in dir and its parents.
func findInParents(startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}

	for {
		for _, filename := range defaultConfigFiles {
			configPath := filepath.Join(dir, filename)
			if _, err := os.Stat(configPath); err == nil {
				return configPath, true
			}
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			break
		}
		dir = parentDir
	}

	return "", false
}

// applyEnvOverrides applies the action's input environment variables.
// Secrets are only ever read from the environment, never from files.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("STRIDE_API_KEY"); val != "" {
		cfg.Stride.APIKey = val
	}
	if val := os.Getenv("STRIDE_API_URL"); val != "" {
		cfg.Stride.APIURL = val
	}
	if val := os.Getenv("GITHUB_TOKEN"); val != "" {
		cfg.GitHub.Token = val
	}
	if val := os.Getenv("GITHUB_API_URL"); val != "" && cfg.GitHub.BaseURL == "" {
		cfg.GitHub.BaseURL = val
	}
	if val := os.Getenv("TRIGGER_MODE"); val != "" {
		cfg.GitHub.TriggerMode = TriggerMode(val)
	}
	if val := os.Getenv("STRIDE_LOG_LEVEL"); val != "" {
		cfg.Global.LogLevel = val
	}
}
