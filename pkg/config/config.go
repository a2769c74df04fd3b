package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"linkcopy/pkg/errors"

	"gopkg.in/yaml.v3"
)

const (
	ModeRich  = "rich"
	ModePlain = "plain"

	DefaultMode      = ModeRich
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "linkcopy"
	DefaultFormat    = "table"
	DefaultLogLevel  = "info"
)

// Config holds the complete configuration
type Config struct {
	Clipboard ClipboardConfig `yaml:"clipboard"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Output    OutputConfig    `yaml:"output"`
	LogLevel  string          `yaml:"log_level,omitempty"`
}

type ClipboardConfig struct {
	// Mode is "rich" (HTML and plain text) or "plain".
	Mode string `yaml:"mode"`
	// Strict turns a refused copy into a failing exit code.
	Strict bool `yaml:"strict"`
}

type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
}

// ValidModes returns the accepted clipboard modes.
func ValidModes() []string {
	return []string{ModeRich, ModePlain}
}

// ValidFormats returns the accepted output formats.
func ValidFormats() []string {
	return []string{"table", "json", "yaml", "markdown"}
}

// Default returns the configuration used when no file or environment is set.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads the configuration from the default path
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, errors.NewWithError(errors.ExitCodeConfig, "failed to get config path", err)
	}
	return loadFromPath(configPath)
}

// LoadFrom loads the configuration from an explicit path. A missing file is an error.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.NewWithError(errors.ExitCodeFileOperation, "config file not found", err)
	}
	return loadFromPath(path)
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "linkcopy", "config.yaml"), nil
}

// Save saves the configuration to path, creating its directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, "failed to create config directory", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, "failed to write config file", err)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func loadFromPath(configPath string) (*Config, error) {
	cfg := &Config{}

	if err := loadConfigFile(configPath, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvironmentOverrides(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadConfigFile reads and parses the config file from the given path
func loadConfigFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		// No file: defaults and environment only.
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, "failed to read config file", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to parse config file", err)
	}

	return nil
}

// applyEnvironmentOverrides applies LINKCOPY_* variables over the file values
func applyEnvironmentOverrides(cfg *Config) error {
	cfg.Clipboard.Mode = getEnv("LINKCOPY_CLIPBOARD_MODE", cfg.Clipboard.Mode)
	cfg.Fetch.UserAgent = getEnv("LINKCOPY_USER_AGENT", cfg.Fetch.UserAgent)
	cfg.Output.Format = getEnv("LINKCOPY_FORMAT", cfg.Output.Format)
	cfg.LogLevel = getEnv("LINKCOPY_LOG_LEVEL", cfg.LogLevel)

	if value := os.Getenv("LINKCOPY_STRICT"); value != "" {
		strict, err := strconv.ParseBool(value)
		if err != nil {
			return errors.ConfigError(fmt.Sprintf("invalid LINKCOPY_STRICT value %q", value))
		}
		cfg.Clipboard.Strict = strict
	}
	if value := os.Getenv("LINKCOPY_FETCH_TIMEOUT"); value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return errors.ConfigError(fmt.Sprintf("invalid LINKCOPY_FETCH_TIMEOUT value %q", value))
		}
		cfg.Fetch.Timeout = timeout
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Clipboard.Mode == "" {
		cfg.Clipboard.Mode = DefaultMode
	}
	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = DefaultTimeout
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = DefaultUserAgent
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultFormat
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

// validateConfig ensures every field holds a usable value
func validateConfig(cfg *Config) error {
	if !contains(ValidModes(), cfg.Clipboard.Mode) {
		return errors.ConfigError(fmt.Sprintf("invalid clipboard mode %q (valid: %v)", cfg.Clipboard.Mode, ValidModes()))
	}
	if !contains(ValidFormats(), cfg.Output.Format) {
		return errors.ConfigError(fmt.Sprintf("invalid output format %q (valid: %v)", cfg.Output.Format, ValidFormats()))
	}
	if cfg.Fetch.Timeout < 0 {
		return errors.ConfigError(fmt.Sprintf("fetch timeout must be positive, got %s", cfg.Fetch.Timeout))
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
