package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DB     DBConfig     `toml:"database"`
	Server ServerConfig `toml:"server"`
}

type DBConfig struct {
	Driver           string `toml:"driver"`            // "libsql" unless overridden.
	ConnectionString string `toml:"connection_string"` // The entire DB connection string.
}

type ServerConfig struct {
	Port      int    `toml:"port"`
	APIKeys   string `toml:"api_keys"` // Comma-separated accepted keys; empty disables auth in dev mode.
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"` // "text" or "json".
}

// Returns the path to the config file.
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, ".config", "periodize")
	return filepath.Join(dir, "config.toml"), nil
}

// Reads the configuration from the config file. A missing file is fine when
// the environment provides the connection string.
func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	applyDefaults(&cfg)

	if dsn := os.Getenv("PERIODIZE_DB"); dsn != "" {
		cfg.DB.ConnectionString = dsn
	}

	// Check for a DEV_MODE environment variable.
	if os.Getenv("DEV_MODE") == "true" {
		cfg.DB.ConnectionString = "file:./local.db?cache=shared&mode=rwc"
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = "libsql"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.Server.LogFormat == "" {
		cfg.Server.LogFormat = "text"
	}
}
