package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const envConfigPath = "BARNACLE_CONFIG"

// Config represents the barnacle configuration file
// (~/.config/barnacleboy/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	ByteOrder  string `yaml:"byte_order"`
	CheckSize  *bool  `yaml:"check_size"`
	StrictBool *bool  `yaml:"strict_bool"`
	NoMmap     *bool  `yaml:"no_mmap"`
	Jobs       *int   `yaml:"jobs"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "barnacleboy", "config.yaml")
}

// LoadConfig reads the config file. A missing file yields a zero Config.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyConfig copies config values into g for every flag the user did not
// set explicitly.
func applyConfig(c *cli.Command, cfg Config, g *globals) {
	if cfg.ByteOrder != "" && !c.IsSet("byte-order") {
		g.byteOrder = cfg.ByteOrder
	}
	if cfg.CheckSize != nil && !c.IsSet("no-size-check") {
		g.noSizeCheck = !*cfg.CheckSize
	}
	if cfg.StrictBool != nil && !c.IsSet("strict-bool") {
		g.strictBool = *cfg.StrictBool
	}
	if cfg.NoMmap != nil && !c.IsSet("no-mmap") {
		g.noMmap = *cfg.NoMmap
	}
	if cfg.Jobs != nil && !c.IsSet("jobs") {
		g.jobs = *cfg.Jobs
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		g.logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		g.logFormat = cfg.LogFormat
	}
}
