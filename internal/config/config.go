// Package config reads and writes the wardnotes settings file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/example/wardnotes/internal/core/patient"
)

// FileName is the settings file inside the wardnotes home directory.
const FileName = "config.json"

// CurrentVersion is written into new config files.
const CurrentVersion = "1.0"

// Themes accepted by the CLI. ThemePlain disables colour.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemePlain = "plain"
)

// Config represents the persisted wardnotes settings.
type Config struct {
	Version               string `json:"version"`
	DataDir               string `json:"data_directory,omitempty"`   // root for patient lists and notes
	Theme                 string `json:"theme,omitempty"`            // light, dark or plain
	ImportDirectory       string `json:"import_directory,omitempty"` // where pt_list exports are dropped
	MergeUnreadablePolicy string `json:"merge_unreadable_policy,omitempty"`
	LogLevel              string `json:"log_level,omitempty"`
	LogFormat             string `json:"log_format,omitempty"` // console or json
}

// Default returns the settings used when no file exists yet.
func Default() *Config {
	return &Config{
		Version:               CurrentVersion,
		Theme:                 ThemeLight,
		MergeUnreadablePolicy: string(patient.UnreadableKeepSource),
		LogLevel:              "warn",
		LogFormat:             "console",
	}
}

// LoadConfig reads config.json from dir. A missing file is not an error:
// defaults are written to disk and returned.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		if err := SaveConfig(dir, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}

	return cfg, nil
}

// SaveConfig writes config.json to dir.
func SaveConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// SetDataDirectory points the config at path, creating the directory if
// needed, and persists the change.
func SetDataDirectory(dir string, cfg *Config, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("data directory must not be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve data directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	cfg.DataDir = abs
	return SaveConfig(dir, cfg)
}

// DataDirectory implements secondary.DataDirProvider.
func (c *Config) DataDirectory() string {
	return c.DataDir
}

// UnreadablePolicy returns the configured merge policy for unreadable note
// files.
func (c *Config) UnreadablePolicy() (patient.UnreadablePolicy, error) {
	return patient.ParseUnreadablePolicy(c.MergeUnreadablePolicy)
}

// Keys lists the settings accepted by Set.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set validates and assigns a single setting by its JSON name. It does not save.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	return set(c, strings.TrimSpace(value))
}

var setters = map[string]func(*Config, string) error{
	"data_directory": func(c *Config, v string) error {
		if v == "" {
			return fmt.Errorf("data directory must not be empty")
		}
		c.DataDir = v
		return nil
	},
	"import_directory": func(c *Config, v string) error {
		c.ImportDirectory = v
		return nil
	},
	"theme": func(c *Config, v string) error {
		switch v {
		case ThemeLight, ThemeDark, ThemePlain:
			c.Theme = v
			return nil
		}
		return fmt.Errorf("unknown theme %q (want light, dark or plain)", v)
	},
	"merge_unreadable_policy": func(c *Config, v string) error {
		p, err := patient.ParseUnreadablePolicy(v)
		if err != nil {
			return err
		}
		c.MergeUnreadablePolicy = string(p)
		return nil
	},
	"log_level": func(c *Config, v string) error {
		if _, err := zapcore.ParseLevel(v); err != nil {
			return fmt.Errorf("invalid log level %q: %w", v, err)
		}
		c.LogLevel = v
		return nil
	},
	"log_format": func(c *Config, v string) error {
		if v != "console" && v != "json" {
			return fmt.Errorf("unknown log format %q (want console or json)", v)
		}
		c.LogFormat = v
		return nil
	},
}
