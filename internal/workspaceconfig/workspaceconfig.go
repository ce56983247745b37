// Package workspaceconfig resolves XDG-compliant paths and the set of
// registered workspace roots, with override priority CLI flag → env var →
// persisted state → default.
package workspaceconfig

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultAppName is the application name used in XDG paths.
const DefaultAppName = "slate"

// Env holds the complete runtime environment configuration.
type Env struct {
	ConfigDir string // $SLATE_CONFIG || $XDG_CONFIG_HOME/slate || ~/.config/slate
	DataDir   string // $SLATE_DATA || $XDG_DATA_HOME/slate || ~/.local/share/slate
	StateDir  string // $SLATE_STATE || $XDG_STATE_HOME/slate || ~/.local/state/slate
	CacheDir  string // $SLATE_CACHE || $XDG_CACHE_HOME/slate || ~/.cache/slate

	// Workspace management: a workspace is a root directory of deck files.
	Workspace         string // active workspace root (from state, ENV override, or CLI flag)
	Workspaces        []string
	WorkspaceOverride string // from CLI --workspace flag or SLATE_WORKSPACE env var (transient)

	ConfigDirOverride string
	DataDirOverride   string
	StateDirOverride  string
	CacheDirOverride  string
}

// GetDefaultEnv creates an Env with XDG-compliant defaults and environment
// variable overrides.
func GetDefaultEnv() (*Env, error) {
	env := &Env{}

	var err error
	env.ConfigDir, err = resolveXDGDir("SLATE_CONFIG", "XDG_CONFIG_HOME", ".config")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}
	env.DataDir, err = resolveXDGDir("SLATE_DATA", "XDG_DATA_HOME", ".local/share")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}
	env.StateDir, err = resolveXDGDir("SLATE_STATE", "XDG_STATE_HOME", ".local/state")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve state directory: %w", err)
	}
	env.CacheDir, err = resolveXDGDir("SLATE_CACHE", "XDG_CACHE_HOME", ".cache")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory: %w", err)
	}

	env.Workspaces = nil // populated by LoadEnvConfig from config.toml

	if envWorkspace := os.Getenv("SLATE_WORKSPACE"); envWorkspace != "" {
		env.WorkspaceOverride = envWorkspace
		env.Workspace = envWorkspace
	}

	return env, nil
}

// DirectoryOverrides holds CLI flag overrides for all XDG directories plus
// the active workspace.
type DirectoryOverrides struct {
	ConfigDir string
	DataDir   string
	StateDir  string
	CacheDir  string
	Workspace string
}

// GetEnvWithOverrides creates an Env with CLI flag overrides applied.
// Priority order: CLI flags → ENV vars → config.toml → XDG defaults.
func GetEnvWithOverrides(overrides DirectoryOverrides) (*Env, error) {
	env, err := GetDefaultEnv()
	if err != nil {
		return nil, err
	}

	if overrides.ConfigDir != "" {
		env.ConfigDirOverride = overrides.ConfigDir
		env.ConfigDir = overrides.ConfigDir
	}
	if overrides.DataDir != "" {
		env.DataDirOverride = overrides.DataDir
		env.DataDir = overrides.DataDir
	}
	if overrides.StateDir != "" {
		env.StateDirOverride = overrides.StateDir
		env.StateDir = overrides.StateDir
	}
	if overrides.CacheDir != "" {
		env.CacheDirOverride = overrides.CacheDir
		env.CacheDir = overrides.CacheDir
	}

	if err := env.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	configPath := env.GetConfigTomlPath()
	if err := EnsureConfigToml(configPath); err != nil {
		return nil, fmt.Errorf("failed to ensure config.toml: %w", err)
	}
	if err := LoadEnvConfig(env); err != nil {
		return nil, fmt.Errorf("failed to load config.toml: %w", err)
	}

	if overrides.Workspace != "" {
		env.WorkspaceOverride = overrides.Workspace
	}

	if err := InitializeWorkspace(env); err != nil {
		return nil, fmt.Errorf("failed to initialize workspace: %w", err)
	}

	return env, nil
}

// EnsureDirectories creates all required directories if they don't exist.
func (env *Env) EnsureDirectories() error {
	for _, dir := range []string{env.ConfigDir, env.DataDir, env.StateDir, env.CacheDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetConfigTomlPath returns the path to config.toml in the config directory.
func (env *Env) GetConfigTomlPath() string {
	return filepath.Join(env.ConfigDir, "config.toml")
}

// GetStateFilePath returns the path to state.yml in the state directory.
func (env *Env) GetStateFilePath() string {
	return filepath.Join(env.StateDir, "state.yml")
}

// resolveXDGDir resolves an XDG directory with priority:
// 1. SLATE_* environment variable,
// 2. XDG_* environment variable + app name,
// 3. ~/.{fallback}/slate.
func resolveXDGDir(slateEnvVar, xdgEnvVar, fallbackDir string) (string, error) {
	if dir := os.Getenv(slateEnvVar); dir != "" {
		return dir, nil
	}
	if xdgDir := os.Getenv(xdgEnvVar); xdgDir != "" {
		return filepath.Join(xdgDir, DefaultAppName), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, fallbackDir, DefaultAppName), nil
}
