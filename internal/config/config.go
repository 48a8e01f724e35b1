package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable keylog settings.
type Config struct {
	LogPath     string `json:"log_path"`     // keystroke log location
	DefaultMode string `json:"default_mode"` // "in-app" | "global"
	InputDevice string `json:"input_device"` // evdev device override for global mode
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		LogPath:     filepath.Join("logs", "keystrokes.txt"),
		DefaultMode: "in-app",
	}
}

// LoadGlobal reads ~/.config/keylog/config.json.
// Returns nil (no error) if the file is absent, so callers can tell an
// explicitly configured value apart from a default.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return loadFile(filepath.Join(home, ".config", "keylog", "config.json"))
}

// LoadProject reads .keylogconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".keylogconfig")
}

// loadFile reads and parses a JSON config file at path.
// Returns nil (no error) when the file is absent.
func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()

	// Apply global values over defaults.
	if global != nil {
		if global.LogPath != "" {
			result.LogPath = global.LogPath
		}
		if global.DefaultMode != "" {
			result.DefaultMode = global.DefaultMode
		}
		if global.InputDevice != "" {
			result.InputDevice = global.InputDevice
		}
	}

	// Apply project values over global.
	if project != nil {
		if project.LogPath != "" {
			result.LogPath = project.LogPath
		}
		if project.DefaultMode != "" {
			result.DefaultMode = project.DefaultMode
		}
		if project.InputDevice != "" {
			result.InputDevice = project.InputDevice
		}
	}

	return result
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
