package config

import "github.com/apibridge/apibridge/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "apibridge",
			Port: 4270,
			Host: "localhost",
		},
		Source: SourceConfig{
			TimeoutSeconds:  30,
			CacheTTLSeconds: 300,
		},
		Tools: ToolsConfig{
			IncludeAll:      true,
			SnakeCaseNames:  true,
			SimplifiedNames: true,
		},
		Headers: map[string]string{},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/apibridge",
			},
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Outputs: []string{"console"},
		},
	}
}
