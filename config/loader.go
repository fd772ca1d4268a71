// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	configDirName = "way2gay"
	envPrefix     = "WAY2GAY_"
)

var configFileNames = []string{"config.toml", "config.yaml", "config.yml"}

// DefaultConfigPath looks for an existing config file in the xdg config directories.
// If none exists, the path of the toml file in the user's config home is returned.
func DefaultConfigPath() string {
	for _, name := range configFileNames {
		if p, err := xdg.SearchConfigFile(filepath.Join(configDirName, name)); err == nil {
			return p
		}
	}
	return filepath.Join(xdg.ConfigHome, configDirName, configFileNames[0])
}

// Load reads the config at path. An empty path means DefaultConfigPath.
// A missing file is not an error, the defaults are returned instead.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logrus.WithField("path", path).Infoln("No config file found, using defaults")
		cfg := DefaultConfig()
		ApplyEnv(cfg)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	ApplyEnv(cfg)
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	logrus.WithField("path", path).Debugln("Loaded config")
	return cfg, nil
}

// Parse decodes a config file. ext selects the format (".toml", ".yaml" or ".yml").
// Values missing from the file keep their defaults.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(ext) {
	case ".toml", "":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid toml: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// ApplyEnv overrides top level values from WAY2GAY_* environment variables
func ApplyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(envPrefix + "START_TYPE"); ok {
		switch v {
		case "repl":
			cfg.StartType = START_REPL
		case "single-command":
			cfg.StartType = START_SINGLE_COMMAND
		case "none":
			cfg.StartType = START_NONE
		default:
			logrus.WithField("value", v).Warnln("Unknown start type in environment, ignoring")
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "START_COMMAND"); ok {
		cfg.StartCommand = v
	}
	if v, ok := os.LookupEnv(envPrefix + "LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(envPrefix + "CHECK_INVARIANTS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logrus.WithError(err).Warnln("Invalid boolean for check invariants, ignoring")
		} else {
			cfg.Debug.CheckInvariants = b
		}
	}
}
