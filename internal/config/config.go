// Package config loads apibridge configuration with priority:
// defaults -> TOML file -> APIBRIDGE_* environment -> command-line flags.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/apibridge/apibridge/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	Source  SourceConfig         `toml:"source"`
	Tools   ToolsConfig          `toml:"tools"`
	Headers map[string]string    `toml:"headers"`
	Storage StorageConfig        `toml:"storage"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// SourceConfig describes where the API description document comes from
// and where dispatched calls go.
type SourceConfig struct {
	// Location is a file path, a direct document URL, or a docs-page URL.
	Location string `toml:"location"`
	// BaseURL overrides the target host for dispatched calls. When empty
	// it is derived from the document's servers entry or the source URL.
	BaseURL string `toml:"base_url"`
	// TimeoutSeconds bounds each dispatched HTTP call.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// CacheTTLSeconds bounds how long a loaded document is reused.
	CacheTTLSeconds int `toml:"cache_ttl_seconds"`
}

// ToolsConfig controls catalog compilation.
type ToolsConfig struct {
	// IncludeAll exposes every operation when no include list is given.
	IncludeAll bool `toml:"include_all"`
	// Include and Exclude match operationId or "METHOD /path" entries.
	// Exclude wins over Include.
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
	// SnakeCaseNames normalizes tool names to snake_case.
	SnakeCaseNames bool `toml:"snake_case_names"`
	// SimplifiedNames applies the short-name heuristic after snake-casing.
	SimplifiedNames bool `toml:"simplified_names"`
	// Prefix is prepended to every tool name after simplification.
	Prefix string `toml:"prefix"`
	// StrictRefs makes unresolved $ref pointers a fatal compile error
	// instead of the lenient empty-schema default.
	StrictRefs bool `toml:"strict_refs"`
}

// StorageConfig contains storage layer settings (sample backend only).
type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies APIBRIDGE_* environment variable overrides.
func applyEnvOverrides(config *Config) {
	if name := os.Getenv("APIBRIDGE_SERVER_NAME"); name != "" {
		config.Server.Name = name
	}
	if port := os.Getenv("APIBRIDGE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("APIBRIDGE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if loc := os.Getenv("APIBRIDGE_SOURCE_LOCATION"); loc != "" {
		config.Source.Location = loc
	}
	if base := os.Getenv("APIBRIDGE_SOURCE_BASE_URL"); base != "" {
		config.Source.BaseURL = base
	}
	if timeout := os.Getenv("APIBRIDGE_SOURCE_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			config.Source.TimeoutSeconds = t
		}
	}
	if prefix := os.Getenv("APIBRIDGE_TOOL_PREFIX"); prefix != "" {
		config.Tools.Prefix = prefix
	}
	if exclude := os.Getenv("APIBRIDGE_TOOL_EXCLUDE"); exclude != "" {
		config.Tools.Exclude = splitList(exclude)
	}
	if badgerPath := os.Getenv("APIBRIDGE_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if level := os.Getenv("APIBRIDGE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, source, baseURL string) {
	if port > 0 {
		config.Server.Port = port
	}
	if source != "" {
		config.Source.Location = source
	}
	if baseURL != "" {
		config.Source.BaseURL = baseURL
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
