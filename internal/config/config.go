// Package config loads YAML configuration for the prerender CLI.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/alnah/go-prerender/internal/fileutil"
	"github.com/alnah/go-prerender/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Config holds defaults for the export pipeline. CLI flags override any
// value set here.
type Config struct {
	Render RenderConfig `yaml:"render"`
	Server ServerConfig `yaml:"server"`
	Policy PolicyConfig `yaml:"policy"`
}

// RenderConfig defines rendering session options.
type RenderConfig struct {
	TimeoutSeconds int    `yaml:"timeoutSeconds"` // 0 = default (10)
	LocalLogic     bool   `yaml:"localLogic"`     // prefer local render script
	RenderScript   string `yaml:"renderScript"`   // path to the local script
	NoSandbox      bool   `yaml:"noSandbox"`
	Devtools       bool   `yaml:"devtools"`
}

// ServerConfig defines content server options.
type ServerConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"` // 0 = default (3000)
}

// PolicyConfig defines halt policy defaults.
type PolicyConfig struct {
	HaltOnError   bool `yaml:"haltOnError"`
	HaltOnWarning bool `yaml:"haltOnWarning"`
}

// DefaultConfig returns a neutral configuration with all features disabled.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrConfigNotFound, configPath)
		}
		return nil, errors.Wrap(err, "reading config file")
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, errors.Mark(err, ErrConfigParse)
	}

	return &cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-prerender/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-prerender", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", errors.Wrapf(ErrConfigNotFound, "tried %s", strings.Join(triedPaths, ", "))
}
