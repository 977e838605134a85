package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "agama"
	configFile = "config.yaml"

	// EnvAPIURL overrides api.url
	EnvAPIURL = "AGAMA_API_URL"
	// EnvLogLevel overrides log.level
	EnvLogLevel = "AGAMA_LOG_LEVEL"
	// EnvAPIPassword supplies the API password, which is never stored
	EnvAPIPassword = "AGAMA_API_PASSWORD"
)

// fileMutex serializes writes of the config file within the process
var fileMutex sync.Mutex

// GetConfigDir returns the OS-appropriate configuration directory for the application.
//   - Linux: $XDG_CONFIG_HOME/agama or $HOME/.config/agama
//   - macOS: $HOME/.config/agama
//   - Windows: %LOCALAPPDATA%\agama
func GetConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, appName), nil
		}
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
		}
		return filepath.Join(userProfile, "AppData", "Local", appName), nil

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil

	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil
	}
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load reads the config file at path. A missing file yields the defaults.
// The result is validated; environment overrides are not applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates config YAML
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", cfg.Version, CurrentVersion)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault loads the config file from GetConfigPath and applies the
// environment overrides.
func LoadDefault() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from AGAMA_API_URL and AGAMA_LOG_LEVEL and
// validates the result.
func (c *Config) ApplyEnv() error {
	if url := strings.TrimSpace(os.Getenv(EnvAPIURL)); url != "" {
		c.API.URL = url
	}
	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		c.Log.Level = strings.ToLower(level)
	}
	return c.Validate()
}

// Password returns the API password from the environment
func Password() string {
	return os.Getenv(EnvAPIPassword)
}

// Save writes the config to GetConfigPath
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return c.SaveTo(path)
}

// SaveTo validates the config and writes it to path atomically.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Agama client configuration
#
# Passwords are never stored here; set ` + EnvAPIPassword + ` instead.
# ` + EnvAPIURL + ` and ` + EnvLogLevel + ` override the values below.

`)
	data = append(header, data...)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// CreateDefault writes a default config file unless one already exists and
// returns its path.
func CreateDefault(overwrite bool) (string, error) {
	path, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil && !overwrite {
		return path, fmt.Errorf("config file %s already exists", path)
	}
	return path, New().SaveTo(path)
}
