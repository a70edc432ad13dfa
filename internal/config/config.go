// Package config loads nthderiv settings from defaults, an optional config
// file and NTHDERIV_ environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "NTHDERIV"

// Output formats understood by the renderer.
const (
	OutputHuman = "human"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

type Config struct {
	TraceDepth   int    `mapstructure:"trace_depth"`
	MaxOrder     int    `mapstructure:"max_order"`
	TraceDisplay int    `mapstructure:"trace_display"`
	Output       string `mapstructure:"output"`
	Color        bool   `mapstructure:"color"`
	Simplify     bool   `mapstructure:"simplify"`
	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`
	Server       Server `mapstructure:"server"`
}

type Server struct {
	Port int `mapstructure:"port"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("trace_depth", 10)
	v.SetDefault("trace_display", 8)
	v.SetDefault("max_order", 1000)
	v.SetDefault("output", OutputHuman)
	v.SetDefault("color", true)
	v.SetDefault("simplify", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("server.port", 8080)
}

// New returns a viper instance with defaults and environment binding.
// Nested keys map to variables with underscores, so server.port is read
// from NTHDERIV_SERVER_PORT.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file when it is non-empty and decodes the merged settings.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the Config for out-of-range or unknown values.
func (c *Config) Validate() error {
	if c.TraceDepth <= 0 {
		return fmt.Errorf("trace_depth must be positive, got %d", c.TraceDepth)
	}
	if c.TraceDisplay < 0 || c.TraceDisplay > c.TraceDepth {
		return fmt.Errorf("trace_display must be between 0 and trace_depth (%d), got %d", c.TraceDepth, c.TraceDisplay)
	}
	if c.MaxOrder <= 0 {
		return fmt.Errorf("max_order must be positive, got %d", c.MaxOrder)
	}
	switch c.Output {
	case OutputHuman, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unsupported output format: %s", c.Output)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %s", c.LogFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", c.LogLevel)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}
