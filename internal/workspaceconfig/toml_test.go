package workspaceconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	config, err := LoadConfig("/nonexistent/config.toml")
	if err != nil {
		t.Fatalf("LoadConfig() with missing file failed: %v", err)
	}
	if len(config.Core.Workspaces) == 0 {
		t.Error("missing-file config should fall back to a default workspace")
	}
}

func TestLoadConfigValidFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")

	validTOML := `[core]
workspaces = ["/home/me/decks", "/home/me/work-decks"]
`
	if err := os.WriteFile(configPath, []byte(validTOML), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() with valid file failed: %v", err)
	}

	want := []string{"/home/me/decks", "/home/me/work-decks"}
	if len(config.Core.Workspaces) != len(want) {
		t.Fatalf("got %d workspaces, want %d", len(config.Core.Workspaces), len(want))
	}
	for i, w := range want {
		if config.Core.Workspaces[i] != w {
			t.Errorf("workspace[%d] = %q, want %q", i, config.Core.Workspaces[i], w)
		}
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")

	invalidTOML := `[core
workspaces = ["invalid"
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil || !strings.Contains(err.Error(), "failed to parse TOML") {
		t.Errorf("expected TOML parse error, got: %v", err)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{name: "nil config", config: nil, wantErr: true, errMsg: "config cannot be nil"},
		{
			name:    "empty workspaces",
			config:  &Config{Core: CoreConfig{Workspaces: []string{}}},
			wantErr: true,
			errMsg:  "at least one workspace must be defined",
		},
		{
			name:    "empty workspace path",
			config:  &Config{Core: CoreConfig{Workspaces: []string{"a", ""}}},
			wantErr: true,
			errMsg:  "workspace paths cannot be empty",
		},
		{
			name:    "duplicate workspace",
			config:  &Config{Core: CoreConfig{Workspaces: []string{"a", "b", "a"}}},
			wantErr: true,
			errMsg:  "duplicate workspace path",
		},
		{
			name:    "valid config",
			config:  &Config{Core: CoreConfig{Workspaces: []string{"a", "b"}}},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(tt.config)
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("validateConfig() = %v, want error containing %q", err, tt.errMsg)
				}
			} else if err != nil {
				t.Errorf("validateConfig() failed for valid config: %v", err)
			}
		})
	}
}

func TestSaveConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")

	config := &Config{Core: CoreConfig{Workspaces: []string{"/a", "/b"}}}
	if err := SaveConfig(configPath, config); err != nil {
		t.Fatalf("SaveConfig() failed: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "[core]") || !strings.Contains(content, "workspaces") {
		t.Error("saved config should contain [core] workspaces section")
	}
}

func TestLoadEnvConfig(t *testing.T) {
	tempDir := t.TempDir()

	env := &Env{ConfigDir: tempDir}

	configPath := env.GetConfigTomlPath()
	customTOML := `[core]
workspaces = ["/ws1", "/ws2", "/ws3"]
`
	if err := os.WriteFile(configPath, []byte(customTOML), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := LoadEnvConfig(env); err != nil {
		t.Fatalf("LoadEnvConfig() failed: %v", err)
	}

	want := []string{"/ws1", "/ws2", "/ws3"}
	if len(env.Workspaces) != len(want) {
		t.Fatalf("got %d workspaces, want %d", len(env.Workspaces), len(want))
	}
	if env.Workspace != "/ws1" {
		t.Errorf("env.Workspace = %q, want %q (first valid workspace)", env.Workspace, "/ws1")
	}
}

func TestEnsureConfigToml(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")

	if err := EnsureConfigToml(configPath); err != nil {
		t.Fatalf("EnsureConfigToml() failed: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config.toml was not created")
	}

	customTOML := `[core]
workspaces = ["existing"]
`
	if err := os.WriteFile(configPath, []byte(customTOML), 0o644); err != nil {
		t.Fatalf("failed to write custom config: %v", err)
	}
	if err := EnsureConfigToml(configPath); err != nil {
		t.Fatalf("EnsureConfigToml() failed on existing file: %v", err)
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load existing config: %v", err)
	}
	if len(config.Core.Workspaces) != 1 || config.Core.Workspaces[0] != "existing" {
		t.Error("EnsureConfigToml() overwrote existing config file")
	}
}
