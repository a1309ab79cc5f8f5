package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/d-kuro/localops-mcp/internal/errors"
)

const (
	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "LOCALOPS_"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// listKeys are split on commas when they come from the environment.
var listKeys = map[string]bool{
	"security.allowed_paths":    true,
	"security.blocked_paths":    true,
	"security.blocked_commands": true,
}

// DefaultPath returns ~/.config/localops-mcp/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, ".config", "localops-mcp", "config.yaml"), nil
}

// Load loads configuration from a YAML file, then overrides it with
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (LOCALOPS_LOG_LEVEL, LOCALOPS_SERVER_HTTP_ADDR, etc.)
//  2. YAML config file
//  3. Defaults
//
// An empty configPath selects DefaultPath, which may be absent. An
// explicit configPath must exist. Files larger than 1MB are rejected.
//
// The bare LOG_LEVEL variable is honoured when neither the file nor
// LOCALOPS_LOG_LEVEL sets a level.
//
// # Environment Variable Mapping
//
// The prefix is stripped and the first underscore separates the section
// from the field:
//
//	LOCALOPS_LOG_LEVEL -> log.level
//	LOCALOPS_SERVER_HTTP_ADDR -> server.http_addr
//	LOCALOPS_SECURITY_BLOCKED_PATHS=/a,/b -> security.blocked_paths
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	path, required := configPath, true
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path, required = defaultPath, false
	}

	content, err := readConfigFile(path, required)
	if err != nil {
		return nil, err
	}

	if content != nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, errors.ConfigurationWithCause(fmt.Sprintf("failed to parse config file %s", path), err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKeyValue), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load environment variables")
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.ConfigurationWithCause("failed to unmarshal config", err)
	}

	if !k.Exists("log.level") {
		if level := os.Getenv("LOG_LEVEL"); level != "" {
			cfg.Log.Level = level
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// readConfigFile returns the file content, or nil when an optional file
// does not exist.
func readConfigFile(path string, required bool) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil, nil
		}
		return nil, errors.ConfigurationWithCause("failed to open config file", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.ConfigurationWithCause("failed to stat config file", err)
	}

	if info.IsDir() {
		return nil, errors.Configuration(fmt.Sprintf("config path %s is a directory", path))
	}

	if info.Size() > maxConfigFileSize {
		return nil, errors.Configuration(fmt.Sprintf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize))
	}

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return nil, errors.ConfigurationWithCause("failed to read config file", err)
	}

	return content, nil
}

// envKeyValue maps LOCALOPS_SECTION_FIELD_NAME to section.field_name and
// splits list values on commas. Variables without a section are ignored.
func envKeyValue(key, value string) (string, any) {
	name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	parts := strings.SplitN(name, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", nil
	}

	name = parts[0] + "." + parts[1]

	if listKeys[name] {
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return name, items
	}

	return name, value
}
