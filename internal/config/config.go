package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppName is the application name used for the config directory
const AppName = "cutter-doc"

// Environment variables that override config file values.
const (
	EnvOutputFormat = "CUTTER_DOC_OUTPUT_FORMAT"
	EnvMiscInfo     = "CUTTER_DOC_MISC_INFO"
)

// Config holds CLI configuration
type Config struct {
	OutputFormat string `yaml:"output_format,omitempty"` // text, json, ndjson, yaml, table
	MiscInfo     string `yaml:"misc_info,omitempty"`     // refmiscinfo of generated pages
	StampName    string `yaml:"stamp_name,omitempty"`    // touched after snippet expansion
	CheckOutput  bool   `yaml:"check_output,omitempty"`  // verify rendered XML is well formed
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultConfigPath returns the default config file path
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ReadConfig reads the config file from the default location
func ReadConfig() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Load loads config from the given path. A missing file yields an empty config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save saves config to the given path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// LoadEnv loads the given dotenv files (default ".env") into the process
// environment. Missing files are skipped and variables that are already set
// keep their value.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("loading %s: %w", file, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values with non-empty environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvOutputFormat)); v != "" {
		c.OutputFormat = v
	}
	if v := strings.TrimSpace(getenv(EnvMiscInfo)); v != "" {
		c.MiscInfo = v
	}
}
