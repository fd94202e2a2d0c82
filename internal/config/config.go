// Package config loads resolver settings from an optional YAML file and the
// environment.
package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/mrzor/realuser/internal/procattr"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// FileEnv names the environment variable pointing at a YAML config file.
	FileEnv = "REALUSER_CONFIG"

	// DefaultTracerName is the instrumentation scope of Resolve spans.
	DefaultTracerName = "github.com/mrzor/realuser"
)

// Config holds resolver settings.
type Config struct {
	// ProcRoot is the procfs mount point used by the procfs source
	ProcRoot string `yaml:"proc_root" env:"REALUSER_PROC_ROOT"`
	// Source selects the attribute source: "procfs" or "gopsutil"
	Source string `yaml:"source" env:"REALUSER_SOURCE"`
	// MaxHops bounds ancestry walks; 0 selects the built-in limit
	MaxHops int `yaml:"max_hops" env:"REALUSER_MAX_HOPS"`
	// LogLevel is a logrus level name
	LogLevel string `yaml:"log_level" env:"REALUSER_LOG_LEVEL"`
	// TracerName is the OpenTelemetry instrumentation scope
	TracerName string `yaml:"tracer_name" env:"REALUSER_TRACER_NAME"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		ProcRoot:   procattr.DefaultProcRoot,
		Source:     procattr.SourceProcFS,
		MaxHops:    0,
		LogLevel:   "warn",
		TracerName: DefaultTracerName,
	}
}

// Load builds a Config from defaults, then the file named by REALUSER_CONFIG
// (if set), then REALUSER_* environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile builds a Config from defaults overlaid with the YAML file at path.
// The environment is not consulted.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "failed to parse config %s", path)
	}
	return nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	switch c.Source {
	case procattr.SourceProcFS, procattr.SourceGopsutil:
	default:
		return errors.Errorf("source must be %s or %s, got %q", procattr.SourceProcFS, procattr.SourceGopsutil, c.Source)
	}

	if c.Source == procattr.SourceProcFS && c.ProcRoot == "" {
		return errors.New("proc_root must not be empty for the procfs source")
	}

	if c.MaxHops < 0 {
		return errors.Errorf("max_hops must not be negative, got %d", c.MaxHops)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "invalid log_level")
	}

	return nil
}

// Level returns the parsed log level, falling back to warn.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return lvl
}
