package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// LocalPath is the per-project config location, checked before the user
// config.
const LocalPath = ".orchard/config.yaml"

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("editor.duplicate_offset", d.Editor.DuplicateOffset)
	v.SetDefault("editor.node_spacing", d.Editor.NodeSpacing)
	v.SetDefault("editor.loop_policy", d.Editor.LoopPolicy)
	v.SetDefault("clipboard.backend", d.Clipboard.Backend)
	v.SetDefault("statistics.enabled", d.Statistics.Enabled)
	v.SetDefault("statistics.db_path", d.Statistics.DBPath)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("watcher.enabled", d.Watcher.Enabled)
	v.SetDefault("watcher.debounce_ms", d.Watcher.DebounceMs)
	v.SetDefault("ui.show_status_bar", d.UI.ShowStatusBar)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("ui.zoom", d.UI.Zoom)
}

// Locate points v at the config file: explicit when given, else
// .orchard/config.yaml, else ~/.config/orchard/config.yaml.
func Locate(v *viper.Viper, explicit string) {
	switch {
	case explicit != "":
		v.SetConfigFile(explicit)
	case fileExists(LocalPath):
		v.SetConfigFile(LocalPath)
	default:
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "orchard"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// Load reads the located config into a validated Config. A missing config
// file is not an error; defaults apply.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
