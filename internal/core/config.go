// Package core holds configuration and small shared helpers.
package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Build is the client build number reported to the backbone, overwritten at
// build time using -ldflags.
var Build = 31

// Config is the operator configuration.
type Config struct {
	Callsign     string `json:"callsign"`
	Group        string `json:"group"`         // selected group, e.g. "@NET"
	Grid         string `json:"grid"`          // own grid square
	BackboneURL  string `json:"backbone_url"`  // relay base URL
	DirectedPath string `json:"directed_path"` // JS8Call DIRECTED.TXT location
	DBPath       string `json:"db_path"`       // traffic database
	PollSeconds  int    `json:"poll_seconds"`  // backbone poll interval
}

// PollInterval returns the backbone poll interval with a 60s default.
func (c Config) PollInterval() time.Duration {
	if c.PollSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.PollSeconds) * time.Second
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "commstat"), nil
}

// ConfigPath returns the config file location.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultDBPath returns the default traffic database location.
func DefaultDBPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "traffic.db3"), nil
}

// ReadConfig reads the config file. A missing file yields a zero config
// with defaults filled in.
func ReadConfig() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	var config Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return Config{}, err
		}
	} else if !os.IsNotExist(err) {
		return Config{}, err
	}

	if config.DBPath == "" {
		config.DBPath, err = DefaultDBPath()
		if err != nil {
			return Config{}, err
		}
	}
	return config, nil
}

// WriteConfig writes the config file, creating the directory if needed.
func WriteConfig(config Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
