// Package config loads pw101 settings from TOML and the environment.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

var ErrInvalidBackend = errors.New("invalid storage backend")

// Config is the application configuration.
type Config struct {
	Storage   StorageConfig   `toml:"storage"`
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
	Reference ReferenceConfig `toml:"reference"`

	// Dir is the data directory; not read from the file.
	Dir string `toml:"-"`
}

// StorageConfig selects the preference store backend.
type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	Addr      string  `toml:"addr"`
	WriteRate float64 `toml:"write_rate"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// ReferenceConfig tunes the reference code watcher.
type ReferenceConfig struct {
	Debounce Duration `toml:"debounce"`
}

// Duration decodes TOML strings such as "500ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Dir returns the data directory: $PW101_DIR or ~/.pw101.
func Dir() string {
	if d := os.Getenv("PW101_DIR"); d != "" {
		return d
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pw101")
}

// Path returns the default config file location.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultConfig returns the embedded example configuration.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.Dir = Dir()
	return &config
}

// LoadConfig reads the TOML file at path on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

// Load reads path if it exists, falls back to defaults otherwise, then
// applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	config := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}
	config.applyEnv()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PW101_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("PW101_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("PW101_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "sqlite", "file":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.Storage.Backend)
	}
	return nil
}

// StorePath returns the configured store location, defaulting per backend.
func (c *Config) StorePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if c.Storage.Backend == "file" {
		return filepath.Join(c.Dir, "sites.json")
	}
	return filepath.Join(c.Dir, "sites.db")
}

// CreateConfigFile writes the example config to path.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
