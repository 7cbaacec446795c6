// Package config handles configuration loading and validation for maki.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultSaveFile is used when neither the config file nor a flag names one.
const DefaultSaveFile = "data.txt"

// Config holds the application configuration.
type Config struct {
	SaveFile    string    `yaml:"save_file"`
	Timezone    string    `yaml:"timezone"`
	HistoryFile string    `yaml:"history_file"`
	LLM         LLMConfig `yaml:"llm"`
}

// LLMConfig configures the /chat assistant.
type LLMConfig struct {
	Model       string  `yaml:"model"`
	MaxTokens   int32   `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SaveFile: DefaultSaveFile,
		Timezone: "Local",
		LLM: LLMConfig{
			Model:       "gemini-2.5-flash",
			MaxTokens:   8192,
			Temperature: 0.7,
		},
	}
}

// Overrides carry values given on the command line. Empty fields leave the
// config file's value in place.
type Overrides struct {
	SaveFile string
	Timezone string
}

func (o Overrides) apply(c *Config) {
	if o.SaveFile != "" {
		c.SaveFile = o.SaveFile
	}
	if o.Timezone != "" {
		c.Timezone = o.Timezone
	}
}

// Load reads configuration from the given path and applies overrides on
// top of it before validating. If configPath is empty or doesn't exist,
// the defaults are used.
func Load(configPath string, overrides Overrides) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	overrides.apply(&cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.SaveFile == "" {
		c.SaveFile = defaults.SaveFile
	}
	if c.Timezone == "" {
		c.Timezone = defaults.Timezone
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaults.LLM.Model
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = defaults.LLM.MaxTokens
	}
}

// EnsureSaveDir creates the parent directory of the save file.
func (c *Config) EnsureSaveDir() error {
	dir := filepath.Dir(c.SaveFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create save file directory: %w", err)
	}
	return nil
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "maki", "config.yaml")
}

// DefaultHistoryFile returns where the REPL keeps its line history.
func DefaultHistoryFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, _ := os.UserHomeDir()
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "maki", "history")
}
