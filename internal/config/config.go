// Package config provides unified configuration loading for paramtree.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config contains all paramtree configuration settings.
type Config struct {
	// Logging contains settings for operational logging and sample recording.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Sampling contains defaults for repeated evaluation of parameter trees.
	Sampling SamplingConfig `json:"sampling" yaml:"sampling"`

	// Units contains settings for unit handling when loading parameter files.
	Units UnitsConfig `json:"units" yaml:"units"`
}

// LoggingConfig configures paramtree's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" and "trace" also enable sample recording to samples.jsonl.
	Level string `json:"level" yaml:"level"`

	// Format selects the handler: "text" (default), "json", or "pretty".
	Format string `json:"format" yaml:"format"`

	// Dir is where sample records are written when recording is enabled.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// SamplingConfig configures the sample command.
type SamplingConfig struct {
	// Count is the number of transforms drawn per run.
	Count int `json:"count" yaml:"count"`

	// Seed seeds the random source. Zero means unseeded.
	Seed uint64 `json:"seed" yaml:"seed"`
}

// UnitsConfig configures unit conversion.
type UnitsConfig struct {
	// ConvertToSI installs SI conversion on every leaf that declares units.
	ConvertToSI bool `json:"convert_to_si" yaml:"convert_to_si"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Sampling: SamplingConfig{
			Count: 1000,
		},
	}
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.paramtree/config.yaml -> environment variables
func Load() (*Config, error) {
	config := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".paramtree", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.Logging.Dir = expandEnvVars(config.Logging.Dir)

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Sampling.Count < 0 {
		return fmt.Errorf("sampling count must be non-negative, got %d", c.Sampling.Count)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true, "pretty": true}
	if c.Logging.Format != "" && !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (valid: text, json, pretty, or empty for default)", c.Logging.Format)
	}

	return nil
}

// Get returns the value of a dotted key such as "sampling.count".
func (c *Config) Get(key string) (any, error) {
	switch key {
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	case "logging.dir":
		return c.Logging.Dir, nil
	case "sampling.count":
		return c.Sampling.Count, nil
	case "sampling.seed":
		return c.Sampling.Seed, nil
	case "units.convert_to_si":
		return c.Units.ConvertToSI, nil
	}
	return nil, fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(Keys(), ", "))
}

// Keys lists the dotted keys accepted by Get.
func Keys() []string {
	keys := []string{
		"logging.level",
		"logging.format",
		"logging.dir",
		"sampling.count",
		"sampling.seed",
		"units.convert_to_si",
	}
	sort.Strings(keys)
	return keys
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("PARAMTREE_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("PARAMTREE_LOG_FORMAT"); v != "" {
		config.Logging.Format = v
	}

	if v := os.Getenv("PARAMTREE_LOG_DIR"); v != "" {
		config.Logging.Dir = v
	}

	if v := os.Getenv("PARAMTREE_SAMPLES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Sampling.Count = n
		}
	}

	if v := os.Getenv("PARAMTREE_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			config.Sampling.Seed = n
		}
	}

	if v := os.Getenv("PARAMTREE_SI"); v != "" {
		config.Units.ConvertToSI = v == "true" || v == "1"
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
