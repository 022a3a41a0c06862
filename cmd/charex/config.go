package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pji/charex/pkg/normal"
)

// Config is the optional user configuration. All fields have working
// defaults; a missing config file is not an error.
type Config struct {
	// DataDir is the directory holding the UCD and reverse-map archives.
	DataDir string `yaml:"data_dir"`

	// DefaultForm is the normalization form used when a command does not
	// name one.
	DefaultForm string `yaml:"default_form"`

	// Properties lists the properties shown by the details command, in
	// display order.
	Properties []string `yaml:"properties"`
}

// defaultProperties is the details report when the config does not
// override it.
var defaultProperties = []string{
	"na", "gc", "ccc", "bc", "sc", "blk", "age", "nv", "wspace", "emoji",
}

// DefaultConfig returns the configuration used when no config file
// exists.
func DefaultConfig() *Config {
	return &Config{
		DataDir:     defaultDataDir(),
		DefaultForm: string(normal.NFC),
		Properties:  append([]string(nil), defaultProperties...),
	}
}

// LoadConfig reads a YAML config file, filling unset fields with
// defaults. An empty path tries the standard location and falls back to
// defaults when nothing is there.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = defaultConfigPath()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	if cfg.DefaultForm == "" {
		cfg.DefaultForm = string(normal.NFC)
	}
	if _, err := normal.Description(normal.Form(cfg.DefaultForm)); err != nil {
		return nil, fmt.Errorf("config default_form: %w", err)
	}
	if len(cfg.Properties) == 0 {
		cfg.Properties = append([]string(nil), defaultProperties...)
	}
	return cfg, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "charex.yaml"
	}
	return filepath.Join(home, ".config", "charex", "config.yaml")
}

func defaultDataDir() string {
	if dir := os.Getenv("CHAREX_DATA"); dir != "" {
		return dir
	}
	return "data"
}
