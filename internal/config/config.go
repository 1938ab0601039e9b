// Package config handles the m360 configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/monit360/m360/internal/monitor"
)

// Config represents configuration stored in ~/.config/m360/config.yml.
// Threshold values are read once at startup and never mutated.
type Config struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	MaxItems int    `yaml:"max_items,omitempty"`
	Readonly bool   `yaml:"readonly,omitempty"`
	HideIDs  bool   `yaml:"hide_ids,omitempty"`

	ThresholdCPUUsage      float64 `yaml:"threshold_cpu_usage,omitempty"`
	ThresholdMemUsage      float64 `yaml:"threshold_mem_usage,omitempty"`
	ThresholdDiskUsage     float64 `yaml:"threshold_disk_usage,omitempty"`
	ThresholdFreeDiskspace float64 `yaml:"threshold_free_diskspace,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "m360"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// HistoryFile is the snapshot history database file name.
	HistoryFile = "history.db"
)

// Default usage thresholds applied when the config file omits them.
const (
	DefaultThresholdCPUUsage      = 80
	DefaultThresholdMemUsage      = 80
	DefaultThresholdDiskUsage     = 90
	DefaultThresholdFreeDiskspace = 20
	DefaultMaxItems               = 5000
)

// Path returns the path to the config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/m360/config.yml.
func Path() string {
	return filepath.Join(configHome(), ConfigDir, ConfigFile)
}

// HistoryPath returns the path to the snapshot history database.
func HistoryPath() string {
	return filepath.Join(configHome(), ConfigDir, HistoryFile)
}

func configHome() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return configHome
}

// Default returns a config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		MaxItems:               DefaultMaxItems,
		ThresholdCPUUsage:      DefaultThresholdCPUUsage,
		ThresholdMemUsage:      DefaultThresholdMemUsage,
		ThresholdDiskUsage:     DefaultThresholdDiskUsage,
		ThresholdFreeDiskspace: DefaultThresholdFreeDiskspace,
	}
}

// Load reads the config file and applies environment overrides.
// A missing file yields the defaults, not an error.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// applyEnv overlays environment variables on top of file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("M360_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("M360_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("M360_READONLY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Readonly = b
		}
	}
}

// applyDefaults fills in zero values left after file parsing.
func (c *Config) applyDefaults() {
	if c.MaxItems <= 0 {
		c.MaxItems = DefaultMaxItems
	}
	if c.ThresholdCPUUsage == 0 {
		c.ThresholdCPUUsage = DefaultThresholdCPUUsage
	}
	if c.ThresholdMemUsage == 0 {
		c.ThresholdMemUsage = DefaultThresholdMemUsage
	}
	if c.ThresholdDiskUsage == 0 {
		c.ThresholdDiskUsage = DefaultThresholdDiskUsage
	}
	if c.ThresholdFreeDiskspace == 0 {
		c.ThresholdFreeDiskspace = DefaultThresholdFreeDiskspace
	}
}

// Save writes the configuration to the given path, creating the parent
// directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Thresholds returns the configured usage thresholds as a domain value.
func (c *Config) Thresholds() monitor.Thresholds {
	return monitor.Thresholds{
		CPUUsage:      c.ThresholdCPUUsage,
		MemUsage:      c.ThresholdMemUsage,
		DiskUsage:     c.ThresholdDiskUsage,
		FreeDiskspace: c.ThresholdFreeDiskspace,
	}
}
