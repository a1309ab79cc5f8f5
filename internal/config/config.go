// Package config provides configuration for localops-mcp.
package config

import (
	"fmt"
	"strings"

	"github.com/d-kuro/localops-mcp/internal/errors"
	"github.com/d-kuro/localops-mcp/internal/logging"
	"github.com/d-kuro/localops-mcp/internal/security"
	"github.com/d-kuro/localops-mcp/internal/tools/command"
)

// Config holds the complete server configuration.
type Config struct {
	Log      LogConfig      `koanf:"log"`
	Server   ServerConfig   `koanf:"server"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Command  CommandConfig  `koanf:"command"`
	Security SecurityConfig `koanf:"security"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	// Level is one of debug, info, warn, warning or error.
	Level string `koanf:"level"`
	// Format is text or json.
	Format string `koanf:"format"`
}

// ServerConfig configures the transports.
type ServerConfig struct {
	// HTTPAddr enables the HTTP transport when set, e.g. ":8080".
	HTTPAddr string `koanf:"http_addr"`
	// RateLimit caps HTTP requests per second per client. Zero disables it.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
}

// MetricsConfig toggles tool call metrics.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// CommandConfig configures how execute_command launches processes.
type CommandConfig struct {
	Shell      string `koanf:"shell"`
	ShellFlag  string `koanf:"shell_flag"`
	WorkingDir string `koanf:"working_dir"`
}

// SecurityConfig configures path and command validation.
type SecurityConfig struct {
	// Restricted starts from the built-in blocklists instead of an open policy.
	Restricted      bool     `koanf:"restricted"`
	AllowedPaths    []string `koanf:"allowed_paths"`
	BlockedPaths    []string `koanf:"blocked_paths"`
	BlockedCommands []string `koanf:"blocked_commands"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	shell, flag := command.DefaultShell()

	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Command: CommandConfig{
			Shell:     shell,
			ShellFlag: flag,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !logging.ValidLevel(c.Log.Level) {
		return errors.Configuration(fmt.Sprintf("invalid log level %q", c.Log.Level))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.Configuration(fmt.Sprintf("invalid log format %q (must be text or json)", c.Log.Format))
	}

	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return errors.Configuration("server.rate_limit and server.rate_burst cannot be negative")
	}

	if strings.TrimSpace(c.Command.Shell) == "" {
		return errors.Configuration("command.shell cannot be empty")
	}

	return nil
}

// Policy builds the security policy described by the configuration.
func (s SecurityConfig) Policy() security.Policy {
	policy := security.PermissivePolicy()
	if s.Restricted {
		policy = security.RestrictedPolicy()
	}

	policy.AllowedPaths = append(policy.AllowedPaths, s.AllowedPaths...)
	policy.BlockedPaths = append(policy.BlockedPaths, s.BlockedPaths...)
	policy.BlockedCommands = append(policy.BlockedCommands, s.BlockedCommands...)
	return policy
}

// CommandOptions returns the execute_command launch options.
func (c CommandConfig) CommandOptions() command.Options {
	return command.Options{
		Shell:      c.Shell,
		ShellFlag:  c.ShellFlag,
		WorkingDir: c.WorkingDir,
	}
}
