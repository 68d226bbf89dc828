package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// BackendConfig holds the REST API endpoint settings.
type BackendConfig struct {
	// BaseURL is the root URL of the CareerConnect backend.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// IdentityConfig holds the identity provider endpoint settings.
type IdentityConfig struct {
	// BaseURL is the root URL of the identity service.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// APIKey is the public web API key sent with every provider call.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`

	// NotifyPollSec is how often (in seconds) the unread-notification
	// count is refreshed while a session is active.
	NotifyPollSec int `mapstructure:"notify_poll_sec" yaml:"notify_poll_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Backend  BackendConfig  `mapstructure:"backend" yaml:"backend"`
	Identity IdentityConfig `mapstructure:"identity" yaml:"identity"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`

	// CachePath is the SQLite file used for the offline cache.
	CachePath string `mapstructure:"cache_path" yaml:"cache_path"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/careerconnect/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "careerconnect", "config.yaml")
}

// defaultCachePath returns the default SQLite cache location.
func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "cache.db")
	}
	return filepath.Join(home, ".config", "careerconnect", "cache.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Backend: BackendConfig{
			BaseURL: "https://api.careerconnect.example.com",
		},
		Identity: IdentityConfig{
			BaseURL: "https://identitytoolkit.googleapis.com",
		},
		Display: DisplayConfig{
			Theme:         "default",
			NotifyPollSec: 30,
		},
		CachePath: defaultCachePath(),
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("backend.base_url", "https://api.careerconnect.example.com")
	v.SetDefault("identity.base_url", "https://identitytoolkit.googleapis.com")
	v.SetDefault("display.theme", "default")
	v.SetDefault("display.notify_poll_sec", 30)
	v.SetDefault("cache_path", defaultCachePath())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Display.NotifyPollSec <= 0 {
		cfg.Display.NotifyPollSec = 30
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("backend", cfg.Backend)
	v.Set("identity", cfg.Identity)
	v.Set("display", cfg.Display)
	v.Set("cache_path", cfg.CachePath)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
