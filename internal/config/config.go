package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAlgorithm   = "bubble"
	DefaultSpeedMs     = 100
	DefaultSize        = 12
	DefaultLogCapacity = 10
	DefaultDataDir     = "runs"
	DefaultLogLevel    = "info"
	MaxSize            = 64
)

type Config struct {
	Algorithm   string `yaml:"algorithm"`
	SpeedMs     int    `yaml:"speed_ms"`
	Size        int    `yaml:"size"`
	Seed        int64  `yaml:"seed"`
	LogCapacity int    `yaml:"log_capacity"`
	DataDir     string `yaml:"data_dir"`
	LogLevel    string `yaml:"log_level"`
	// Input is custom data in the algorithm category's text format; empty
	// means seed synthetic data.
	Input string `yaml:"input,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Algorithm:   DefaultAlgorithm,
		SpeedMs:     DefaultSpeedMs,
		Size:        DefaultSize,
		LogCapacity: DefaultLogCapacity,
		DataDir:     DefaultDataDir,
		LogLevel:    DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Algorithm == "":
		return fmt.Errorf("config: algorithm is required")
	case c.SpeedMs < 0:
		return fmt.Errorf("config: speed_ms must not be negative, got %d", c.SpeedMs)
	case c.Size < 1 || c.Size > MaxSize:
		return fmt.Errorf("config: size must be between 1 and %d, got %d", MaxSize, c.Size)
	case c.LogCapacity < 1:
		return fmt.Errorf("config: log_capacity must be positive, got %d", c.LogCapacity)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}

func (c *Config) Speed() time.Duration {
	return time.Duration(c.SpeedMs) * time.Millisecond
}
