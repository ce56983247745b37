package workspaceconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the structure of config.toml: the set of registered
// workspace roots.
type Config struct {
	Core CoreConfig `toml:"core"`
}

// CoreConfig represents the [core] section of config.toml.
type CoreConfig struct {
	Workspaces []string `toml:"workspaces"`
}

// DefaultConfig returns the default configuration values: a single
// workspace root at the user's home directory's "slate" subdirectory.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Core: CoreConfig{
			Workspaces: []string{filepath.Join(home, "slate")},
		},
	}
}

// LoadConfig loads configuration from config.toml. If the file doesn't
// exist, returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := &Config{}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config %s: %w", configPath, err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return config, nil
}

// SaveConfig saves configuration to config.toml.
func SaveConfig(configPath string, config *Config) error {
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to TOML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", configPath, err)
	}

	return nil
}

func validateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if len(config.Core.Workspaces) == 0 {
		return fmt.Errorf("at least one workspace must be defined in [core] workspaces")
	}

	seen := make(map[string]bool)
	for _, ws := range config.Core.Workspaces {
		if ws == "" {
			return fmt.Errorf("workspace paths cannot be empty")
		}
		if seen[ws] {
			return fmt.Errorf("duplicate workspace path: %s", ws)
		}
		seen[ws] = true
	}

	return nil
}

// LoadEnvConfig loads Env.Workspaces from config.toml.
func LoadEnvConfig(env *Env) error {
	configPath := env.GetConfigTomlPath()

	config, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	env.Workspaces = config.Core.Workspaces

	workspaceValid := false
	for _, ws := range env.Workspaces {
		if env.Workspace == ws {
			workspaceValid = true
			break
		}
	}
	if !workspaceValid && env.WorkspaceOverride == "" {
		env.Workspace = env.Workspaces[0]
	}

	return nil
}

// EnsureConfigToml creates a config.toml with default settings if it
// doesn't exist.
func EnsureConfigToml(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	defaultConfig := DefaultConfig()
	if err := SaveConfig(configPath, defaultConfig); err != nil {
		return fmt.Errorf("failed to create default config.toml: %w", err)
	}

	return nil
}
