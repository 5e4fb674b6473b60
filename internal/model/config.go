package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// APIConfig holds the connection settings for the train backend.
type APIConfig struct {
	// BaseURL is the root URL of the backend (e.g., https://trains.example.com/api).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds every remote call.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// MaxRetries is how many times a 429/5xx response is retried.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`
}

// Timeout returns TimeoutSec as a duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// ListConfig holds train list behaviour.
type ListConfig struct {
	SearchDebounceMs int `mapstructure:"search_debounce_ms" yaml:"search_debounce_ms"`
	PollIntervalSec  int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// SearchDebounce returns SearchDebounceMs as a duration.
func (c ListConfig) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMs) * time.Millisecond
}

// PollInterval returns PollIntervalSec as a duration.
func (c ListConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSec) * time.Second
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// LogConfig controls the file logger. The terminal belongs to the UI, so
// logs always go to a file.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// StoreConfig locates the local SQLite cache.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	List    ListConfig    `mapstructure:"list" yaml:"list"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
}

// configDir returns ~/.config/trainadmin, or the working directory when
// the home directory cannot be resolved.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "trainadmin")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/trainadmin/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dir := configDir()
	return &AppConfig{
		API: APIConfig{
			BaseURL:    "http://localhost:3000",
			TimeoutSec: 30,
			MaxRetries: 3,
		},
		List: ListConfig{
			SearchDebounceMs: 300,
			PollIntervalSec:  60,
		},
		Display: DisplayConfig{Theme: "default"},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "trainadmin.log"),
		},
		Store: StoreConfig{Path: filepath.Join(dir, "trains.db")},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// TRAINADMIN_* environment variables override file values
// (e.g., TRAINADMIN_API_BASE_URL). If the file does not exist, defaults
// are used.
func LoadConfig(path string) (*AppConfig, error) {
	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("trainadmin")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("api.timeout_sec", def.API.TimeoutSec)
	v.SetDefault("api.max_retries", def.API.MaxRetries)
	v.SetDefault("list.search_debounce_ms", def.List.SearchDebounceMs)
	v.SetDefault("list.poll_interval_sec", def.List.PollIntervalSec)
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("store.path", def.Store.Path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.List.SearchDebounceMs <= 0 {
		cfg.List.SearchDebounceMs = def.List.SearchDebounceMs
	}
	if cfg.List.PollIntervalSec <= 0 {
		cfg.List.PollIntervalSec = def.List.PollIntervalSec
	}
	if cfg.API.TimeoutSec <= 0 {
		cfg.API.TimeoutSec = def.API.TimeoutSec
	}
	if cfg.API.MaxRetries < 0 {
		cfg.API.MaxRetries = 0
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

	v.Set("api", cfg.API)
	v.Set("list", cfg.List)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)
	v.Set("store", cfg.Store)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
