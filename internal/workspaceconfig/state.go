package workspaceconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// State represents the persisted state in state.yml: which workspace was
// last active.
type State struct {
	Version         string `yaml:"version"`
	ActiveWorkspace string `yaml:"active_workspace"`
}

// LoadState loads the active workspace from the state file. Returns the
// default workspace (first in the registered list) if the state file
// doesn't exist.
func LoadState(env *Env) (string, error) {
	stateFile := env.GetStateFilePath()

	if _, err := os.Stat(stateFile); os.IsNotExist(err) {
		if len(env.Workspaces) > 0 {
			return env.Workspaces[0], nil
		}
		return "", nil
	}

	data, err := os.ReadFile(stateFile)
	if err != nil {
		return "", fmt.Errorf("failed to read state file %s: %w", stateFile, err)
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return "", fmt.Errorf("failed to parse state file %s: %w", stateFile, err)
	}

	for _, ws := range env.Workspaces {
		if ws == state.ActiveWorkspace {
			return state.ActiveWorkspace, nil
		}
	}

	if len(env.Workspaces) > 0 {
		return env.Workspaces[0], nil
	}
	return "", nil
}

// SaveState saves the active workspace to the state file.
func SaveState(env *Env, activeWorkspace string) error {
	state := State{Version: "1.0", ActiveWorkspace: activeWorkspace}

	data, err := yaml.Marshal(&state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	stateFile := env.GetStateFilePath()
	if err := os.MkdirAll(filepath.Dir(stateFile), 0o750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	if err := os.WriteFile(stateFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", stateFile, err)
	}

	return nil
}

// SwitchWorkspace updates env to use a new active workspace and persists
// the change.
func SwitchWorkspace(env *Env, newWorkspace string) error {
	valid := false
	for _, ws := range env.Workspaces {
		if ws == newWorkspace {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("workspace %q not found in registered workspaces %v", newWorkspace, env.Workspaces)
	}

	env.Workspace = newWorkspace

	if env.WorkspaceOverride == "" {
		if err := SaveState(env, newWorkspace); err != nil {
			return fmt.Errorf("failed to save workspace state: %w", err)
		}
	}

	return nil
}

// InitializeWorkspace sets up the active workspace based on overrides and
// persisted state. Priority: WorkspaceOverride (CLI/ENV) → persisted state
// → default (first registered workspace).
func InitializeWorkspace(env *Env) error {
	var active string
	var err error

	if env.WorkspaceOverride != "" {
		active = env.WorkspaceOverride
	} else {
		active, err = LoadState(env)
		if err != nil {
			return fmt.Errorf("failed to load workspace state: %w", err)
		}
	}

	env.Workspace = active
	return nil
}
