package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func loadConfigFromYAML(t *testing.T, content string) (Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	v := viper.New()
	Locate(v, path)
	return Load(v)
}

func TestDefaults_AreValid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	cfg, err := loadConfigFromYAML(t, `
editor:
  duplicate_offset: 40
  loop_policy: forbid
clipboard:
  backend: memory
registry:
  paths: [/opt/widgets]
theme:
  preset: nord
  colors:
    node.border: "#FFFFFF"
`)
	require.NoError(t, err)
	require.Equal(t, 40.0, cfg.Editor.DuplicateOffset)
	require.Equal(t, 150.0, cfg.Editor.NodeSpacing, "unset keys keep defaults")
	require.Equal(t, "forbid", cfg.Editor.LoopPolicy)
	require.Equal(t, "memory", cfg.Clipboard.Backend)
	require.Equal(t, []string{"/opt/widgets"}, cfg.Registry.Paths)
	require.Equal(t, "nord", cfg.Theme.Preset)
	require.Equal(t, map[string]string{"node.border": "#FFFFFF"}, cfg.Theme.FlattenedColors())
	require.Equal(t, 200, cfg.Watcher.DebounceMs)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	v := viper.New()
	v.AddConfigPath(t.TempDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, "system", cfg.Clipboard.Backend)
	require.True(t, cfg.Statistics.Enabled)
}

func TestLoad_DefaultTemplateParses(t *testing.T) {
	cfg, err := loadConfigFromYAML(t, DefaultConfigTemplate())
	require.NoError(t, err)
	require.Equal(t, "allow", cfg.Editor.LoopPolicy)
	require.Equal(t, 10.0, cfg.UI.Zoom)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"loop policy", func(c *Config) { c.Editor.LoopPolicy = "sometimes" }, "editor.loop_policy"},
		{"negative offset", func(c *Config) { c.Editor.DuplicateOffset = -1 }, "editor.duplicate_offset"},
		{"clipboard backend", func(c *Config) { c.Clipboard.Backend = "x11" }, "clipboard.backend"},
		{"sample rate", func(c *Config) { c.Tracing.SampleRate = 1.5 }, "tracing.sample_rate"},
		{"exporter", func(c *Config) { c.Tracing.Exporter = "zipkin" }, "tracing.exporter"},
		{"file path", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.FilePath = ""
		}, "tracing.file_path"},
		{"otlp endpoint", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "otlp"
			c.Tracing.OTLPEndpoint = ""
		}, "tracing.otlp_endpoint"},
		{"debounce", func(c *Config) { c.Watcher.DebounceMs = -5 }, "watcher.debounce_ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}
