package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/nthderiv/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.TraceDepth)
	assert.Equal(t, 8, cfg.TraceDisplay)
	assert.Equal(t, 1000, cfg.MaxOrder)
	assert.Equal(t, config.OutputHuman, cfg.Output)
	assert.True(t, cfg.Color)
	assert.True(t, cfg.Simplify)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nthderiv.yaml")
	content := "trace_depth: 6\ntrace_display: 4\noutput: yaml\nserver:\n  port: 9090\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(config.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.TraceDepth)
	assert.Equal(t, 4, cfg.TraceDisplay)
	assert.Equal(t, config.OutputYAML, cfg.Output)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("NTHDERIV_OUTPUT", "json")
	t.Setenv("NTHDERIV_SERVER_PORT", "7000")
	t.Setenv("NTHDERIV_MAX_ORDER", "50")

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.MaxOrder)
	assert.Equal(t, config.OutputJSON, cfg.Output)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(config.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			TraceDepth: 10, TraceDisplay: 8, MaxOrder: 1000, Output: "human",
			LogLevel: "info", LogFormat: "text", Server: config.Server{Port: 8080},
		}
	}
	require.NoError(t, valid().Validate())

	tests := map[string]func(c *config.Config){
		"zero depth":           func(c *config.Config) { c.TraceDepth = 0 },
		"display beyond depth": func(c *config.Config) { c.TraceDisplay = 11 },
		"zero max order":       func(c *config.Config) { c.MaxOrder = 0 },
		"bad output":           func(c *config.Config) { c.Output = "xml" },
		"bad log format":       func(c *config.Config) { c.LogFormat = "logfmt" },
		"bad log level":        func(c *config.Config) { c.LogLevel = "trace" },
		"bad port":             func(c *config.Config) { c.Server.Port = 70000 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
