package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"linkcopy/pkg/errors"

	"gopkg.in/yaml.v3"
)

var envKeys = []string{
	"LINKCOPY_CLIPBOARD_MODE",
	"LINKCOPY_STRICT",
	"LINKCOPY_FETCH_TIMEOUT",
	"LINKCOPY_USER_AGENT",
	"LINKCOPY_FORMAT",
	"LINKCOPY_LOG_LEVEL",
}

// clearEnv unsets every LINKCOPY_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
	return configPath
}

func TestLoad_Success(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, `clipboard:
  mode: plain
  strict: true
fetch:
  timeout: 3s
  user_agent: test-agent
output:
  format: json
log_level: debug
`)

	cfg, err := loadFromPath(configPath)
	if err != nil {
		t.Fatalf("loadFromPath() returned error: %v", err)
	}

	if cfg.Clipboard.Mode != ModePlain {
		t.Errorf("Expected mode 'plain', got '%s'", cfg.Clipboard.Mode)
	}
	if !cfg.Clipboard.Strict {
		t.Error("Expected strict to be true")
	}
	if cfg.Fetch.Timeout != 3*time.Second {
		t.Errorf("Expected timeout 3s, got %s", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.UserAgent != "test-agent" {
		t.Errorf("Expected user agent 'test-agent', got '%s'", cfg.Fetch.UserAgent)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Expected format 'json', got '%s'", cfg.Output.Format)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level 'debug', got '%s'", cfg.LogLevel)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadFromPath(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("loadFromPath() returned error: %v", err)
	}

	want := Default()
	if *cfg != *want {
		t.Errorf("Expected defaults %+v, got %+v", *want, *cfg)
	}
	if cfg.Clipboard.Mode != ModeRich {
		t.Errorf("Expected default mode 'rich', got '%s'", cfg.Clipboard.Mode)
	}
	if cfg.Fetch.Timeout != DefaultTimeout {
		t.Errorf("Expected default timeout %s, got %s", DefaultTimeout, cfg.Fetch.Timeout)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, `clipboard:
  mode: rich
fetch:
  timeout: 3s
`)
	t.Setenv("LINKCOPY_CLIPBOARD_MODE", "plain")
	t.Setenv("LINKCOPY_STRICT", "true")
	t.Setenv("LINKCOPY_FETCH_TIMEOUT", "45s")
	t.Setenv("LINKCOPY_FORMAT", "yaml")

	cfg, err := loadFromPath(configPath)
	if err != nil {
		t.Fatalf("loadFromPath() returned error: %v", err)
	}

	if cfg.Clipboard.Mode != ModePlain {
		t.Errorf("Expected mode 'plain', got '%s'", cfg.Clipboard.Mode)
	}
	if !cfg.Clipboard.Strict {
		t.Error("Expected strict from environment")
	}
	if cfg.Fetch.Timeout != 45*time.Second {
		t.Errorf("Expected timeout 45s, got %s", cfg.Fetch.Timeout)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("Expected format 'yaml', got '%s'", cfg.Output.Format)
	}
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"LINKCOPY_STRICT", "maybe"},
		{"LINKCOPY_FETCH_TIMEOUT", "soon"},
		{"LINKCOPY_CLIPBOARD_MODE", "fancy"},
		{"LINKCOPY_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := loadFromPath(filepath.Join(t.TempDir(), "nonexistent.yaml"))
			if err == nil {
				t.Fatalf("Expected error for %s=%s", tt.key, tt.value)
			}
			if !errors.IsExitCode(err, errors.ExitCodeConfig) {
				t.Errorf("Expected config exit code, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.value) {
				t.Errorf("Expected error to mention %q, got %q", tt.value, err.Error())
			}
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, `clipboard:
  - invalid yaml
`)

	_, err := loadFromPath(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
	if !errors.IsExitCode(err, errors.ExitCodeConfig) {
		t.Errorf("Expected config exit code, got %v", err)
	}
}

func TestLoad_NegativeTimeout(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, `fetch:
  timeout: -1s
`)

	if _, err := loadFromPath(configPath); err == nil {
		t.Fatal("Expected error for negative timeout")
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadFrom(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Expected error for explicit missing file")
	}
	if !errors.IsExitCode(err, errors.ExitCodeFileOperation) {
		t.Errorf("Expected file operation exit code, got %v", err)
	}
}

func TestGetConfigPath_XDG(t *testing.T) {
	xdgDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdgDir)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() failed: %v", err)
	}

	expectedPath := filepath.Join(xdgDir, "linkcopy", "config.yaml")
	if path != expectedPath {
		t.Errorf("Expected path '%s', got '%s'", expectedPath, path)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Clipboard.Strict = true
	cfg.Fetch.Timeout = 2 * time.Minute

	if err := Save(configPath, cfg); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read saved config: %v", err)
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Saved config is not valid YAML: %v", err)
	}
	if !strings.Contains(string(data), "timeout: 2m0s") {
		t.Errorf("Expected timeout to be written as a duration, got:\n%s", data)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Expected %+v, got %+v", *cfg, *loaded)
	}
}
