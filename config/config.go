// Package config loads the application configuration from YAML, with an
// optional .env file supplying API keys.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ProviderConfig selects and configures the LLM provider.
type ProviderConfig struct {
	Kind      string `yaml:"kind"`        // openai, anthropic or google
	Model     string `yaml:"model"`       // provider model name
	APIKeyEnv string `yaml:"api_key_env"` // env var holding the key
	BaseURL   string `yaml:"base_url,omitempty"`
}

// StoreConfig selects the strain/preference store backend.
type StoreConfig struct {
	Type     string          `yaml:"type"` // memory, sqlite, redis or postgres
	SQLite   *SQLiteConfig   `yaml:"sqlite,omitempty"`
	Redis    *RedisConfig    `yaml:"redis,omitempty"`
	Postgres *PostgresConfig `yaml:"postgres,omitempty"`
}

// SQLiteConfig contains the SQLite database location.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig contains Redis connection details.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// PostgresConfig contains the Postgres connection string.
type PostgresConfig struct {
	ConnString string `yaml:"conn_string"`
}

// TilerConfig overrides the image tiling geometry.
type TilerConfig struct {
	MaxChunkHeight int `yaml:"max_chunk_height"`
	Overlap        int `yaml:"overlap"`
	ChunkThreshold int `yaml:"chunk_threshold"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Provider ProviderConfig `yaml:"provider"`
	Store    StoreConfig    `yaml:"store"`
	Tiler    TilerConfig    `yaml:"tiler"`
	LogLevel string         `yaml:"log_level"`
}

// APIKey resolves the provider API key from the environment.
func (c *AppConfig) APIKey() (string, error) {
	key := os.Getenv(c.Provider.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("API key env var %s is not set", c.Provider.APIKeyEnv)
	}
	return key, nil
}

// Load reads a config from the given path. If the file does not exist,
// defaults are returned. A .env file next to the working directory is
// loaded first when present.
func Load(path string) (*AppConfig, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/terpmatch/config.yaml,
// falling back to defaults if neither exists.
func LoadDefault() (*AppConfig, error) {
	if _, err := os.Stat("config.yaml"); err == nil {
		return Load("config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultConfig(), nil
	}
	return Load(filepath.Join(home, ".config", "terpmatch", "config.yaml"))
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Provider.Kind == "" {
		cfg.Provider.Kind = "anthropic"
	}
	if cfg.Provider.Model == "" {
		switch cfg.Provider.Kind {
		case "openai":
			cfg.Provider.Model = "gpt-4o"
		case "google":
			cfg.Provider.Model = "gemini-1.5-pro"
		default:
			cfg.Provider.Model = "claude-sonnet-4-20250514"
		}
	}
	if cfg.Provider.APIKeyEnv == "" {
		switch cfg.Provider.Kind {
		case "openai":
			cfg.Provider.APIKeyEnv = "OPENAI_API_KEY"
		case "google":
			cfg.Provider.APIKeyEnv = "GOOGLE_API_KEY"
		default:
			cfg.Provider.APIKeyEnv = "ANTHROPIC_API_KEY"
		}
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "sqlite"
	}
	if cfg.Store.Type == "sqlite" && cfg.Store.SQLite == nil {
		cfg.Store.SQLite = &SQLiteConfig{Path: defaultDBPath()}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "terpmatch.db"
	}
	return filepath.Join(home, ".config", "terpmatch", "terpmatch.db")
}
