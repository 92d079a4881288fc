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

const defaultOutputSuffix = ".extracted"

// Config represents the pfsextract configuration file
// (~/.config/pfsextract/config.yaml). Explicit flags always win.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Extraction
	OutputSuffix string `yaml:"output_suffix"`
	Manifest     *bool  `yaml:"manifest"`

	// Server
	ServerAddress string `yaml:"server_address"`
	MaxImageSize  *int64 `yaml:"max_image_size"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pfsextract", "config.yaml")
}

// LoadConfig reads the config file at path, or the default location when path
// is empty. A missing default file yields a zero Config; a missing explicit file
// or malformed YAML is an error.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = configPath()
		if path == "" {
			return Config{}, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, usageError{fmt.Errorf("read config: %w", err)}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, usageError{fmt.Errorf("parse config %s: %w", path, err)}
	}
	return cfg, nil
}

// applyConfig copies config values into the flag variables whose flags were
// not set on the command line.
func applyConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	if cfg.OutputSuffix != "" && !c.IsSet("suffix") {
		outputSuffix = cfg.OutputSuffix
	}
	if cfg.Manifest != nil && !c.IsSet("manifest") {
		writeManifest = *cfg.Manifest
	}
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		serverAddr = cfg.ServerAddress
	}
	if cfg.MaxImageSize != nil && !c.IsSet("max-image-size") {
		maxImageSize = *cfg.MaxImageSize
	}
}
