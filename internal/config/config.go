package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Feed    FeedConfig    `mapstructure:"feed"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds backend connection configuration
type ServerConfig struct {
	URL      string `mapstructure:"url"`      // Backend base URL
	Token    string `mapstructure:"token"`    // Access token
	UserID   string `mapstructure:"user_id"`  // Authenticated user ID
	Username string `mapstructure:"username"` // Display handle
}

// FeedConfig holds incremental loading configuration
type FeedConfig struct {
	PageSize   int `mapstructure:"page_size"`   // Items requested per page
	Lookahead  int `mapstructure:"lookahead"`   // Rows before list end that trigger prefetch
	CooldownMS int `mapstructure:"cooldown_ms"` // Minimum gap between prefetch triggers
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme       string `mapstructure:"theme"`
	DefaultView string `mapstructure:"default_view"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{},
		Feed: FeedConfig{
			PageSize:   20,
			Lookahead:  8,
			CooldownMS: 400,
		},
		UI: UIConfig{
			Theme:       "default",
			DefaultView: "home",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "tubetui", "tubetui.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "tubetui", "tubetui.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "tubetui")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "tubetui")
	}
}

// defaultCachePath returns the default cache directory for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "tubetui", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "tubetui", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("TUBETUI")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set("server.url", cfg.Server.URL)
	viper.Set("server.token", cfg.Server.Token)
	viper.Set("server.user_id", cfg.Server.UserID)
	viper.Set("server.username", cfg.Server.Username)

	viper.Set("feed.page_size", cfg.Feed.PageSize)
	viper.Set("feed.lookahead", cfg.Feed.Lookahead)
	viper.Set("feed.cooldown_ms", cfg.Feed.CooldownMS)

	viper.Set("ui.theme", cfg.UI.Theme)
	viper.Set("ui.default_view", cfg.UI.DefaultView)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveCredentials updates just the session fields in the configuration
func SaveCredentials(token, userID, username string) error {
	viper.Set("server.token", token)
	viper.Set("server.user_id", userID)
	viper.Set("server.username", username)

	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ClearCredentials removes the stored session (token and user identity)
// while preserving the server URL and other settings. Called on logout and
// on session expiry.
func ClearCredentials() error {
	return SaveCredentials("", "", "")
}

// IsConfigured returns true if the server URL is set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != ""
}

// IsLoggedIn returns true if a token is stored
func (c *Config) IsLoggedIn() bool {
	return c.Server.Token != ""
}

// ClearCache removes all cached data
func ClearCache() error {
	cachePath := defaultCachePath()
	if err := os.RemoveAll(cachePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// GetCachePath returns the cache directory path
func GetCachePath() string {
	return defaultCachePath()
}
