// Package config provides configuration management for the tracker.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	Logging LoggingConfig `mapstructure:"logging"`
	Advisor AdvisorConfig `mapstructure:"advisor"`
}

// DataConfig holds data locations.
type DataConfig struct {
	Dir       string `mapstructure:"dir"`        // database and state directory
	ExportDir string `mapstructure:"export_dir"` // default destination for exports
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// AdvisorConfig holds the optional LLM portfolio reviewer configuration.
type AdvisorConfig struct {
	Model  string `mapstructure:"model"`
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/atrad-tracker"
	}
	return filepath.Join(home, ".config", "atrad-tracker")
}

// DBPath returns the path of the SQLite state database.
func (c *Config) DBPath() string {
	return filepath.Join(c.Data.Dir, "tracker.db")
}

// Load loads configuration from the specified directory, writing a template
// config on first run. If configDir is empty, the default directory is used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("data.dir", configDir)
	v.SetDefault("data.export_dir", ".")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "tracker.log"))
	v.SetDefault("logging.max_size", 20)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)
	v.SetDefault("advisor.model", "gpt-4o")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if werr := writeTemplate(configDir); werr != nil {
				return nil, fmt.Errorf("creating config template: %w", werr)
			}
		} else {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Environment overrides for secrets, so the key never has to live in
	// the config file.
	if key := os.Getenv("ATRAD_TRACKER_API_KEY"); key != "" {
		cfg.Advisor.APIKey = key
	}

	return cfg, nil
}

func writeTemplate(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}
	template := `# atrad-tracker configuration

[data]
# dir = "~/.config/atrad-tracker"
# export_dir = "."

[logging]
level = "info"
console = true
file = true

[advisor]
# model = "gpt-4o"
# api_key = ""   # or set ATRAD_TRACKER_API_KEY
`
	return os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(template), 0600)
}
