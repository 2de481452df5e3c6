package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the YAML configuration file looked up in the scan root
	FileName = ".vecguard.config"
	// TOMLFileName is used when no YAML configuration exists
	TOMLFileName = ".vecguard.toml"
)

// DefaultExtensions are the file suffixes analyzed when none are configured
var DefaultExtensions = []string{".cpp", ".hpp", ".h"}

// Config represents the vecguard configuration file
type Config struct {
	Extensions []string      `yaml:"extensions" toml:"extensions"`
	Ignores    IgnoresConfig `yaml:"ignores" toml:"ignores"`
	Limits     LimitsConfig  `yaml:"limits" toml:"limits"`

	path string
}

// IgnoresConfig contains ignore rules
type IgnoresConfig struct {
	Folders    []string `yaml:"folders" toml:"folders"`       // Folders to skip when scanning (names or relative paths)
	Containers []string `yaml:"containers" toml:"containers"` // Container names whose issues are not reported
}

// LimitsConfig bounds a single run
type LimitsConfig struct {
	MaxFiles int `yaml:"max_files" toml:"max_files"` // 0 means unlimited
	Jobs     int `yaml:"jobs" toml:"jobs"`           // Files analyzed at once, 0 means 1
}

// LoadConfig loads the configuration from the specified directory.
// .vecguard.config takes precedence over .vecguard.toml.
func LoadConfig(rootPath string) (*Config, error) {
	yamlPath := filepath.Join(rootPath, FileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return loadYAML(yamlPath)
	}

	tomlPath := filepath.Join(rootPath, TOMLFileName)
	if _, err := os.Stat(tomlPath); err == nil {
		return loadTOML(tomlPath)
	}

	// No config file, return default config
	return &Config{
		Ignores: IgnoresConfig{
			Folders:    []string{},
			Containers: []string{},
		},
	}, nil
}

func loadYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	config.path = path

	return &config, nil
}

func loadTOML(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	config.path = path

	return &config, nil
}

// Path returns the file the config was loaded from, or "" for defaults
func (c *Config) Path() string {
	return c.path
}

// GetExtensions returns the configured extensions or the defaults
func (c *Config) GetExtensions() []string {
	if len(c.Extensions) == 0 {
		return DefaultExtensions
	}
	return c.Extensions
}

// ShouldIgnoreContainer checks if issues for a container should be dropped
func (c *Config) ShouldIgnoreContainer(name string) bool {
	for _, ignored := range c.Ignores.Containers {
		if ignored == name {
			return true
		}
	}
	return false
}

// DefaultContent is written by init-config
const DefaultContent = `# .vecguard.config
# Configuration file for vecguard

# File suffixes to analyze (default: .cpp, .hpp, .h)
extensions:
  - .cpp
  - .hpp
  - .h

ignores:
  # Folders to skip when scanning (names like "third_party" or paths like "src/gen")
  folders:
    # - third_party
    # - src/generated

  # Containers whose accesses should never be reported
  containers:
    # - kLookupTable

limits:
  # Stop after this many files (0 = unlimited)
  max_files: 0
  # Files analyzed concurrently (output order is unaffected)
  jobs: 1
`
