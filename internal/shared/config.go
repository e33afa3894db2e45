package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	User     UserConfig     `toml:"user"`
	Database DatabaseConfig `toml:"database"`
	Practice PracticeConfig `toml:"practice"`
	Audio    AudioConfig    `toml:"audio"`
}

// UserConfig identifies the practicing user; sessions are scoped to this id.
type UserConfig struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// PracticeConfig contains practice timer defaults.
type PracticeConfig struct {
	DefaultBPM      int `toml:"default_bpm"`
	TimeSignature   int `toml:"time_signature"`
	SaveDebounceMS  int `toml:"save_debounce_ms"`
	NotesDebounceMS int `toml:"notes_debounce_ms"`
}

// AudioConfig contains audio output settings for the metronome.
type AudioConfig struct {
	Player string  `toml:"player"` // external PCM player command, e.g. "aplay"
	Volume float64 `toml:"volume"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
