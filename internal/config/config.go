// Package config provides configuration management for the ums CLI.
// Configuration is loaded from (highest to lowest priority):
//  1. Command-line flags
//  2. Environment variables (UMS_*)
//  3. Project config (.ums/config.yaml in cwd)
//  4. Home config (~/.ums/config.yaml)
//  5. Defaults
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the engine defaults and CLI output preferences the ums
// binary resolves before constructing an engine.Config.
type Config struct {
	// Output controls the default output format (json, yaml, table).
	Output string `yaml:"output" json:"output"`

	// StateFile is the path the CLI persists its snapshot to between
	// invocations.
	StateFile string `yaml:"state_file" json:"state_file"`

	// Verbose enables verbose output.
	Verbose bool `yaml:"verbose" json:"verbose"`

	// DefaultStoreID is used when a command omits --store-id.
	DefaultStoreID string `yaml:"default_store_id" json:"default_store_id"`

	// Guardrails mirrors engine.Config's overridable defaults.
	Guardrails GuardrailConfig `yaml:"guardrails" json:"guardrails"`
}

// GuardrailConfig mirrors engine.Config's budget fields so they can be
// set from a config file or environment instead of only flags.
type GuardrailConfig struct {
	DefaultMaxItems         int `yaml:"default_max_items" json:"default_max_items"`
	DefaultTokenBudget      int `yaml:"default_token_budget" json:"default_token_budget"`
	DefaultMaxBytes         int `yaml:"default_max_bytes" json:"default_max_bytes"`
	MaxWorkingEpisodeWindow int `yaml:"max_working_episode_window" json:"max_working_episode_window"`
}

// Default config values (used in resolution and validation).
const (
	defaultOutput    = "json"
	defaultStateFile = ".ums/state.json"
	defaultStoreID   = "default"
)

// Default returns the out-of-the-box configuration.
func Default() *Config {
	return &Config{
		Output:         defaultOutput,
		StateFile:      defaultStateFile,
		Verbose:        false,
		DefaultStoreID: defaultStoreID,
		Guardrails: GuardrailConfig{
			DefaultMaxItems:         20,
			DefaultTokenBudget:      2000,
			DefaultMaxBytes:         65536,
			MaxWorkingEpisodeWindow: 50,
		},
	}
}

// Load loads configuration with proper precedence: flags > env > project >
// home > defaults.
func Load(flagOverrides *Config) (*Config, error) {
	cfg := Default()

	if homeConfig, _ := loadFromFirstPath(homeConfigCandidates()); homeConfig != nil {
		cfg = merge(cfg, homeConfig)
	}
	if projectConfig, _ := loadFromFirstPath(projectConfigCandidates()); projectConfig != nil {
		cfg = merge(cfg, projectConfig)
	}

	cfg = applyEnv(cfg)

	if flagOverrides != nil {
		cfg = merge(cfg, flagOverrides)
	}

	return cfg, nil
}

// homeConfigCandidates lists the home config paths to probe, in order.
// Both YAML and TOML are accepted so a project can use whichever format
// its other tooling already standardized on.
func homeConfigCandidates() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".ums", "config.yaml"),
		filepath.Join(home, ".ums", "config.toml"),
	}
}

// projectConfigCandidates lists the project config paths to probe. An
// explicit UMS_CONFIG override is tried first, with its format inferred
// from its extension.
func projectConfigCandidates() []string {
	if override := strings.TrimSpace(os.Getenv("UMS_CONFIG")); override != "" {
		return []string{override}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(cwd, ".ums", "config.yaml"),
		filepath.Join(cwd, ".ums", "config.toml"),
	}
}

// loadFromFirstPath tries each candidate in order and loads the first one
// that exists, inferring its format from its extension.
func loadFromFirstPath(candidates []string) (*Config, error) {
	for _, path := range candidates {
		cfg, err := loadFromPath(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		if cfg != nil {
			return cfg, nil
		}
	}
	return nil, nil
}

func loadFromPath(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if strings.HasSuffix(path, ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) *Config {
	if v := os.Getenv("UMS_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("UMS_STATE_FILE"); v != "" {
		cfg.StateFile = v
	}
	if v := os.Getenv("UMS_STORE_ID"); v != "" {
		cfg.DefaultStoreID = v
	}
	if v := os.Getenv("UMS_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	return cfg
}

// merge merges src into dst, with src's non-zero values taking precedence.
func merge(dst, src *Config) *Config {
	if src.Output != "" {
		dst.Output = src.Output
	}
	if src.StateFile != "" {
		dst.StateFile = src.StateFile
	}
	if src.DefaultStoreID != "" {
		dst.DefaultStoreID = src.DefaultStoreID
	}
	if src.Verbose {
		dst.Verbose = true
	}
	if src.Guardrails.DefaultMaxItems != 0 {
		dst.Guardrails.DefaultMaxItems = src.Guardrails.DefaultMaxItems
	}
	if src.Guardrails.DefaultTokenBudget != 0 {
		dst.Guardrails.DefaultTokenBudget = src.Guardrails.DefaultTokenBudget
	}
	if src.Guardrails.DefaultMaxBytes != 0 {
		dst.Guardrails.DefaultMaxBytes = src.Guardrails.DefaultMaxBytes
	}
	if src.Guardrails.MaxWorkingEpisodeWindow != 0 {
		dst.Guardrails.MaxWorkingEpisodeWindow = src.Guardrails.MaxWorkingEpisodeWindow
	}
	return dst
}
