// Package config loads the session configuration: the commands to run plus
// a handful of tunables. Sources are layered, later wins: defaults, then a
// TOML file, then PROCMUX_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/sformichella/process-manager/internal/history"
)

// EnvPrefix namespaces the environment overrides.
const EnvPrefix = "PROCMUX_"

// Validation errors.
var (
	ErrNoProcesses  = errors.New("no processes configured")
	ErrEmptyCommand = errors.New("process has an empty command")
	ErrBadRetention = errors.New("retention must be positive")
)

// Process describes one child command.
type Process struct {
	// Name labels the process in logs. Defaults to the executable name.
	Name string `toml:"name"`
	// Command is the executable followed by its arguments.
	Command []string `toml:"command"`
	// Dir is the working directory; empty inherits the session's.
	Dir string `toml:"dir"`
	// Env entries are appended to the inherited environment.
	Env []string `toml:"env"`
}

// Config is the full session configuration.
type Config struct {
	// Retention bounds each child tab's history.
	Retention int `toml:"retention"`
	// LogLevel filters session log lines (debug, info, warn, error).
	LogLevel string `toml:"log_level"`
	// LogFile optionally mirrors the session log to a file.
	LogFile string `toml:"log_file"`
	// Processes are the children to spawn, in tab order.
	Processes []Process `toml:"process"`
}

// Default returns the configuration before any file or environment input.
func Default() Config {
	return Config{
		Retention: history.DefaultRetention,
		LogLevel:  "info",
	}
}

// Load reads path (when non-empty) and applies environment overrides and
// process-name defaults. Callers add any command-line processes and then
// run Validate.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyEnv overlays PROCMUX_* environment variables.
func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvPrefix + "RETENTION"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %sRETENTION: %w", EnvPrefix, err)
		}
		c.Retention = n
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_FILE"); ok {
		c.LogFile = v
	}
	return nil
}

// applyDefaults fills derivable fields.
func (c *Config) applyDefaults() {
	for i := range c.Processes {
		if c.Processes[i].Name == "" && len(c.Processes[i].Command) > 0 {
			c.Processes[i].Name = c.Processes[i].Command[0]
		}
	}
}

// Validate rejects configurations the session cannot start with.
func (c Config) Validate() error {
	if len(c.Processes) == 0 {
		return ErrNoProcesses
	}
	if c.Retention < 1 {
		return fmt.Errorf("%w: %d", ErrBadRetention, c.Retention)
	}
	for i, p := range c.Processes {
		if len(p.Command) == 0 {
			return fmt.Errorf("process %d (%s): %w", i, p.Name, ErrEmptyCommand)
		}
	}
	return nil
}
