// Package config provides configuration types and defaults for orchard.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/orchard/internal/log"
)

// Config holds all configuration options for orchard.
type Config struct {
	Registry   RegistryConfig   `mapstructure:"registry"`
	Editor     EditorConfig     `mapstructure:"editor"`
	Clipboard  ClipboardConfig  `mapstructure:"clipboard"`
	Statistics StatisticsConfig `mapstructure:"statistics"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Watcher    WatcherConfig    `mapstructure:"watcher"`
	UI         UIConfig         `mapstructure:"ui"`
	Theme      ThemeConfig      `mapstructure:"theme"`
}

// RegistryConfig lists extra widget registration files and directories.
type RegistryConfig struct {
	Paths       []string `mapstructure:"paths"`        // .yaml, .yml or .hcl files, or directories of them
	SkipBuiltin bool     `mapstructure:"skip_builtin"` // Only load Paths
}

// EditorConfig holds document editing behavior.
type EditorConfig struct {
	// DuplicateOffset is how far duplicated and pasted nodes are shifted.
	DuplicateOffset float64 `mapstructure:"duplicate_offset"`

	// NodeSpacing is the horizontal step used to find a free position for new
	// nodes.
	NodeSpacing float64 `mapstructure:"node_spacing"`

	// LoopPolicy is "allow" (default) or "forbid". "forbid" rejects links
	// that would close a cycle.
	LoopPolicy string `mapstructure:"loop_policy"`

	// ChannelNames shows channel names on links.
	ChannelNames bool `mapstructure:"channel_names"`
}

// ClipboardConfig selects the clipboard backend.
type ClipboardConfig struct {
	Backend string `mapstructure:"backend"` // "system" (default) or "memory"
}

// StatisticsConfig controls widget usage statistics.
type StatisticsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"` // Default: ~/.config/orchard/usage.db
}

// TracingConfig holds OpenTelemetry configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/orchard/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// WatcherConfig controls reloading the open document when it changes on disk.
type WatcherConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	DebounceMs int  `mapstructure:"debounce_ms"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool    `mapstructure:"show_status_bar"`
	MarkdownStyle string  `mapstructure:"markdown_style"` // "dark" (default) or "light"
	Zoom          float64 `mapstructure:"zoom"`           // Canvas units per terminal cell
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	// Valid values: "default", "dracula", "nord", "high-contrast"
	Preset string `mapstructure:"preset"`

	// Colors overrides individual color tokens. Nested maps and quoted dot
	// notation ("node.border": "#FF0000") are both accepted.
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns Colors keyed by dot-notation token names.
func (t ThemeConfig) FlattenedColors() map[string]string {
	out := make(map[string]string)
	flatten("", t.Colors, out)
	return out
}

func flatten(prefix string, m map[string]any, out map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			flatten(key, val, out)
		}
	}
}

// DefaultTracesFilePath returns ~/.config/orchard/traces/traces.jsonl, or ""
// when the home directory is unavailable.
func DefaultTracesFilePath() string {
	return userPath("traces", "traces.jsonl")
}

// DefaultStatisticsPath returns ~/.config/orchard/usage.db, or "" when the
// home directory is unavailable.
func DefaultStatisticsPath() string {
	return userPath("usage.db")
}

func userPath(elem ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{home, ".config", "orchard"}, elem...)...)
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Editor: EditorConfig{
			DuplicateOffset: 20,
			NodeSpacing:     150,
			LoopPolicy:      "allow",
		},
		Clipboard: ClipboardConfig{
			Backend: "system",
		},
		Statistics: StatisticsConfig{
			Enabled: true,
			DBPath:  DefaultStatisticsPath(),
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Watcher: WatcherConfig{
			Enabled:    true,
			DebounceMs: 200,
		},
		UI: UIConfig{
			ShowStatusBar: true,
			MarkdownStyle: "dark",
			Zoom:          10,
		},
	}
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidateEditor(c.Editor); err != nil {
		return err
	}
	if err := ValidateClipboard(c.Clipboard); err != nil {
		return err
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	if c.Watcher.DebounceMs < 0 {
		return fmt.Errorf("watcher.debounce_ms must not be negative, got %d", c.Watcher.DebounceMs)
	}
	if c.UI.Zoom < 0 {
		return fmt.Errorf("ui.zoom must not be negative, got %v", c.UI.Zoom)
	}
	return nil
}

// ValidateEditor checks editor configuration for errors.
func ValidateEditor(e EditorConfig) error {
	switch e.LoopPolicy {
	case "", "allow", "forbid":
	default:
		return fmt.Errorf("editor.loop_policy must be \"allow\" or \"forbid\", got %q", e.LoopPolicy)
	}
	if e.DuplicateOffset < 0 {
		return fmt.Errorf("editor.duplicate_offset must not be negative, got %v", e.DuplicateOffset)
	}
	if e.NodeSpacing < 0 {
		return fmt.Errorf("editor.node_spacing must not be negative, got %v", e.NodeSpacing)
	}
	return nil
}

// ValidateClipboard checks clipboard configuration for errors.
func ValidateClipboard(c ClipboardConfig) error {
	switch c.Backend {
	case "", "system", "memory":
		return nil
	default:
		return fmt.Errorf("clipboard.backend must be \"system\" or \"memory\", got %q", c.Backend)
	}
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Path requirements only matter when tracing is on.
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Orchard Configuration

# Widget registry
registry:
  # Extra registration files or directories (.yaml, .yml, .hcl)
  # paths:
  #   - ~/.config/orchard/widgets
  skip_builtin: false

# Editing behavior
editor:
  duplicate_offset: 20   # Shift applied to duplicated and pasted nodes
  node_spacing: 150      # Step used to place new nodes next to existing ones
  loop_policy: allow     # allow (default) or forbid cycles
  channel_names: false   # Show channel names on links

# Clipboard backend: system (default) or memory
clipboard:
  backend: system

# Widget usage statistics (local SQLite database)
statistics:
  enabled: true
  # db_path: ~/.config/orchard/usage.db

# Reload the document when it changes on disk
watcher:
  enabled: true
  debounce_ms: 200

# UI settings
ui:
  show_status_bar: true
  # markdown_style: dark  # Widget description style: "dark" (default) or "light"
  zoom: 10                # Canvas units per terminal cell

# Theme configuration
theme:
  # preset: dracula
  #
  # Available presets: default, dracula, nord, high-contrast
  #
  # colors:
  #   node.border: "#FFFFFF"
  #   link.disabled: "#555555"

# OpenTelemetry tracing of document edits
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/orchard/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
