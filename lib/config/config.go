// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "BL2BANK_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for interactive use on a workstation.
	Development Environment = "development"
	// Production is for scripted, unattended use.
	Production Environment = "production"
)

// Config is the master configuration for bl2bank.
type Config struct {
	// Environment selects which override section applies.
	Environment Environment `yaml:"environment"`

	// Paths configures file locations.
	Paths PathsConfig `yaml:"paths"`

	// Container configures how save containers are written.
	Container ContainerConfig `yaml:"container"`

	// IDs configures UniqueID generation for new and pasted slots.
	IDs IDsConfig `yaml:"ids"`

	// Logging configures the command logger.
	Logging LoggingConfig `yaml:"logging"`

	// Per-environment overrides, applied after the base config.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Paths     *PathsConfig     `yaml:"paths,omitempty"`
	Container *ContainerConfig `yaml:"container,omitempty"`
	IDs       *IDsConfig       `yaml:"ids,omitempty"`
	Logging   *LoggingConfig   `yaml:"logging,omitempty"`
}

// PathsConfig configures file locations.
type PathsConfig struct {
	// Root is the base directory for bl2bank data.
	Root string `yaml:"root"`

	// Saves is where bare save names (no directory component) are
	// resolved. See [Config.ResolveSave].
	Saves string `yaml:"saves"`

	// Identity is the age identity file used to open and seal
	// containers. Empty disables sealing.
	Identity string `yaml:"identity"`
}

// ContainerConfig configures save container writes.
type ContainerConfig struct {
	// Compression is "none", "lz4" or "zstd".
	// Default: lz4
	Compression string `yaml:"compression"`

	// Recipients are additional age public keys every sealed
	// container is encrypted to, besides the identity's own key.
	Recipients []string `yaml:"recipients"`
}

// IDsConfig configures UniqueID generation.
type IDsConfig struct {
	// Mode is "random", "sequence" or "seeded".
	// Default: random
	Mode string `yaml:"mode"`

	// Seed is the seed for "seeded" mode.
	Seed uint64 `yaml:"seed"`

	// Start is the first identifier in "sequence" mode.
	Start int32 `yaml:"start"`
}

// LoggingConfig configures the command logger.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error".
	// Default: info (development), warn (production)
	Level string `yaml:"level"`

	// Format is "auto" (text on a terminal, JSON otherwise), "text"
	// or "json".
	// Default: auto
	Format string `yaml:"format"`
}

// Modes accepted by IDsConfig.Mode.
var idModes = []string{"random", "sequence", "seeded"}

var compressions = []string{"none", "lz4", "zstd"}

var logLevels = []string{"debug", "info", "warn", "error"}

var logFormats = []string{"auto", "text", "json"}

// Default returns the default configuration, used as the base that a
// config file is merged into.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(homeDir, ".local", "share", "bl2bank")

	return &Config{
		Environment: Development,
		Paths: PathsConfig{
			Root:  defaultRoot,
			Saves: filepath.Join(defaultRoot, "saves"),
		},
		Container: ContainerConfig{
			Compression: "lz4",
		},
		IDs: IDsConfig{
			Mode: "random",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load loads configuration from the file named by BL2BANK_CONFIG.
// It fails when the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your bl2bank.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merged over
// [Default].
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
		if overrides == nil {
			overrides = &ConfigOverrides{
				Logging: &LoggingConfig{Level: "warn", Format: "json"},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Paths != nil {
		if overrides.Paths.Root != "" {
			c.Paths.Root = overrides.Paths.Root
		}
		if overrides.Paths.Saves != "" {
			c.Paths.Saves = overrides.Paths.Saves
		}
		if overrides.Paths.Identity != "" {
			c.Paths.Identity = overrides.Paths.Identity
		}
	}

	if overrides.Container != nil {
		if overrides.Container.Compression != "" {
			c.Container.Compression = overrides.Container.Compression
		}
		if overrides.Container.Recipients != nil {
			c.Container.Recipients = overrides.Container.Recipients
		}
	}

	if overrides.IDs != nil {
		if overrides.IDs.Mode != "" {
			c.IDs.Mode = overrides.IDs.Mode
		}
		if overrides.IDs.Seed != 0 {
			c.IDs.Seed = overrides.IDs.Seed
		}
		if overrides.IDs.Start != 0 {
			c.IDs.Start = overrides.IDs.Start
		}
	}

	if overrides.Logging != nil {
		if overrides.Logging.Level != "" {
			c.Logging.Level = overrides.Logging.Level
		}
		if overrides.Logging.Format != "" {
			c.Logging.Format = overrides.Logging.Format
		}
	}
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"BL2BANK_ROOT": c.Paths.Root,
		"HOME":         os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["BL2BANK_ROOT"] = c.Paths.Root

	c.Paths.Saves = expandVars(c.Paths.Saves, vars)
	c.Paths.Identity = expandVars(c.Paths.Identity, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name, defaultValue := parts[1], parts[2]

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}
	if c.Paths.Root == "" {
		errs = append(errs, fmt.Errorf("paths.root is required"))
	}
	if !slices.Contains(compressions, c.Container.Compression) {
		errs = append(errs, fmt.Errorf("container.compression must be one of: %s", strings.Join(compressions, ", ")))
	}
	if !slices.Contains(idModes, c.IDs.Mode) {
		errs = append(errs, fmt.Errorf("ids.mode must be one of: %s", strings.Join(idModes, ", ")))
	}
	if !slices.Contains(logLevels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level must be one of: %s", strings.Join(logLevels, ", ")))
	}
	if !slices.Contains(logFormats, c.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format must be one of: %s", strings.Join(logFormats, ", ")))
	}
	if len(c.Container.Recipients) > 0 && c.Paths.Identity == "" {
		errs = append(errs, fmt.Errorf("container.recipients requires paths.identity"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ResolveSave maps a save argument to a file path. Arguments with a
// directory component, and all arguments when Paths.Saves is empty,
// are returned unchanged; a bare name is looked up in Paths.Saves.
func (c *Config) ResolveSave(name string) string {
	if c.Paths.Saves == "" || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	return filepath.Join(c.Paths.Saves, name)
}

// EnsurePaths creates the configured directories if they don't exist.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{c.Paths.Root, c.Paths.Saves} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0700); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
