package workspaceconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnvVars(t *testing.T) {
	t.Helper()
	vars := []string{
		"SLATE_CONFIG", "SLATE_DATA", "SLATE_STATE", "SLATE_CACHE", "SLATE_WORKSPACE",
		"XDG_CONFIG_HOME", "XDG_DATA_HOME", "XDG_STATE_HOME", "XDG_CACHE_HOME",
	}
	for _, v := range vars {
		old, had := os.LookupEnv(v)
		os.Unsetenv(v)
		t.Cleanup(func() {
			if had {
				os.Setenv(v, old)
			}
		})
	}
}

func TestGetDefaultEnvUsesHomeFallback(t *testing.T) {
	clearEnvVars(t)

	env, err := GetDefaultEnv()
	if err != nil {
		t.Fatalf("GetDefaultEnv() failed: %v", err)
	}

	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".config", "slate")
	if env.ConfigDir != want {
		t.Errorf("ConfigDir = %q, want %q", env.ConfigDir, want)
	}
}

func TestGetDefaultEnvRespectsXDGVars(t *testing.T) {
	clearEnvVars(t)

	tempDir := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, "config"))
	os.Setenv("XDG_DATA_HOME", filepath.Join(tempDir, "data"))

	env, err := GetDefaultEnv()
	if err != nil {
		t.Fatalf("GetDefaultEnv() failed: %v", err)
	}

	wantConfig := filepath.Join(tempDir, "config", "slate")
	if env.ConfigDir != wantConfig {
		t.Errorf("ConfigDir = %q, want %q", env.ConfigDir, wantConfig)
	}
	wantData := filepath.Join(tempDir, "data", "slate")
	if env.DataDir != wantData {
		t.Errorf("DataDir = %q, want %q", env.DataDir, wantData)
	}
}

func TestGetDefaultEnvSlateVarsTakePriorityOverXDG(t *testing.T) {
	clearEnvVars(t)

	tempDir := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, "xdg-config"))
	os.Setenv("SLATE_CONFIG", filepath.Join(tempDir, "slate-config"))

	env, err := GetDefaultEnv()
	if err != nil {
		t.Fatalf("GetDefaultEnv() failed: %v", err)
	}

	want := filepath.Join(tempDir, "slate-config")
	if env.ConfigDir != want {
		t.Errorf("ConfigDir = %q, want %q (SLATE_CONFIG should win over XDG_CONFIG_HOME)", env.ConfigDir, want)
	}
}

func TestGetDefaultEnvWorkspaceEnvVarOverride(t *testing.T) {
	clearEnvVars(t)
	os.Setenv("SLATE_WORKSPACE", "/custom/workspace")

	env, err := GetDefaultEnv()
	if err != nil {
		t.Fatalf("GetDefaultEnv() failed: %v", err)
	}
	if env.WorkspaceOverride != "/custom/workspace" {
		t.Errorf("WorkspaceOverride = %q, want %q", env.WorkspaceOverride, "/custom/workspace")
	}
	if env.Workspace != "/custom/workspace" {
		t.Errorf("Workspace = %q, want %q", env.Workspace, "/custom/workspace")
	}
}

func TestGetEnvWithOverridesAppliesCLIFlags(t *testing.T) {
	clearEnvVars(t)

	tempDir := t.TempDir()
	overrides := DirectoryOverrides{
		ConfigDir: filepath.Join(tempDir, "cfg"),
		DataDir:   filepath.Join(tempDir, "data"),
		StateDir:  filepath.Join(tempDir, "state"),
		CacheDir:  filepath.Join(tempDir, "cache"),
	}

	env, err := GetEnvWithOverrides(overrides)
	if err != nil {
		t.Fatalf("GetEnvWithOverrides() failed: %v", err)
	}

	if env.ConfigDir != overrides.ConfigDir {
		t.Errorf("ConfigDir = %q, want %q", env.ConfigDir, overrides.ConfigDir)
	}
	if env.DataDir != overrides.DataDir {
		t.Errorf("DataDir = %q, want %q", env.DataDir, overrides.DataDir)
	}

	for _, dir := range []string{env.ConfigDir, env.DataDir, env.StateDir, env.CacheDir} {
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("directory %s was not created: %v", dir, err)
		}
	}

	if _, err := os.Stat(env.GetConfigTomlPath()); err != nil {
		t.Errorf("config.toml was not created: %v", err)
	}

	if len(env.Workspaces) == 0 {
		t.Error("Workspaces should be populated from default config.toml")
	}
	if env.Workspace == "" {
		t.Error("Workspace should be initialized")
	}
}

func TestGetEnvWithOverridesWorkspaceFlagWins(t *testing.T) {
	clearEnvVars(t)

	tempDir := t.TempDir()
	overrides := DirectoryOverrides{
		ConfigDir: filepath.Join(tempDir, "cfg"),
		DataDir:   filepath.Join(tempDir, "data"),
		StateDir:  filepath.Join(tempDir, "state"),
		CacheDir:  filepath.Join(tempDir, "cache"),
		Workspace: "/flag/workspace",
	}

	env, err := GetEnvWithOverrides(overrides)
	if err != nil {
		t.Fatalf("GetEnvWithOverrides() failed: %v", err)
	}
	if env.Workspace != "/flag/workspace" {
		t.Errorf("Workspace = %q, want %q", env.Workspace, "/flag/workspace")
	}
}

func TestEnsureDirectories(t *testing.T) {
	tempDir := t.TempDir()
	env := &Env{
		ConfigDir: filepath.Join(tempDir, "config"),
		DataDir:   filepath.Join(tempDir, "data"),
		StateDir:  filepath.Join(tempDir, "state"),
		CacheDir:  filepath.Join(tempDir, "cache"),
	}

	if err := env.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() failed: %v", err)
	}

	for _, dir := range []string{env.ConfigDir, env.DataDir, env.StateDir, env.CacheDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("directory %s was not created: %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestGetConfigTomlPathAndStateFilePath(t *testing.T) {
	env := &Env{ConfigDir: "/a/config", StateDir: "/a/state"}

	if got := env.GetConfigTomlPath(); got != filepath.Join("/a/config", "config.toml") {
		t.Errorf("GetConfigTomlPath() = %q", got)
	}
	if got := env.GetStateFilePath(); got != filepath.Join("/a/state", "state.yml") {
		t.Errorf("GetStateFilePath() = %q", got)
	}
}
