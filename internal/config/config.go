// Package config handles the configuration directory, config.yaml and the stored session token.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskdeck"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// TokenFile is the stored session token filename.
	TokenFile = "token.json"

	// ServerURLEnv overrides server_url from config.yaml.
	ServerURLEnv = "TASKDECK_SERVER_URL"
)

// Defaults applied when config.yaml leaves a field empty.
const (
	DefaultServerURL     = "http://localhost:8080"
	DefaultTimeout       = 5 * time.Second
	DefaultFetchDebounce = 100 * time.Millisecond
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// ServerURL is the base URL of the task API.
	ServerURL string

	// Timeout bounds every API call.
	Timeout time.Duration

	// FetchDebounce coalesces rapid filter changes into one fetch.
	FetchDebounce time.Duration

	// RollbackOnFailure restores the previous order when persisting a reorder fails.
	RollbackOnFailure bool
}

// fileSettings is the on-disk shape of config.yaml.
type fileSettings struct {
	ServerURL         string `yaml:"server_url"`
	Timeout           string `yaml:"timeout"`
	FetchDebounce     string `yaml:"fetch_debounce"`
	RollbackOnFailure *bool  `yaml:"rollback_on_failure"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskdeck or $HOME/.config/taskdeck.
// Settings are read from config.yaml when present.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:               dir,
		ServerURL:         DefaultServerURL,
		Timeout:           DefaultTimeout,
		FetchDebounce:     DefaultFetchDebounce,
		RollbackOnFailure: true,
	}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	if env := os.Getenv(ServerURLEnv); env != "" {
		cfg.ServerURL = env
	}
	return cfg, nil
}

// load applies config.yaml over the defaults. A missing file is not an error.
func (c *Config) load() error {
	data, err := os.ReadFile(c.SettingsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", ConfigFile, err)
	}

	var fs fileSettings
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	if fs.ServerURL != "" {
		c.ServerURL = fs.ServerURL
	}
	if fs.Timeout != "" {
		d, err := time.ParseDuration(fs.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid %s: timeout: %q", ConfigFile, fs.Timeout)
		}
		c.Timeout = d
	}
	if fs.FetchDebounce != "" {
		d, err := time.ParseDuration(fs.FetchDebounce)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid %s: fetch_debounce: %q", ConfigFile, fs.FetchDebounce)
		}
		c.FetchDebounce = d
	}
	if fs.RollbackOnFailure != nil {
		c.RollbackOnFailure = *fs.RollbackOnFailure
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// TokenPath returns the path to the stored session token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// LoadToken reads the stored session token.
func (c *Config) LoadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", TokenFile, err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", TokenFile, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("invalid %s: empty access token", TokenFile)
	}
	return &token, nil
}

// SaveToken writes the session token with mode 0600.
func (c *Config) SaveToken(token *oauth2.Token) error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.TokenPath(), data, 0600)
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
