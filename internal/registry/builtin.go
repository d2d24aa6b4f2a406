package registry

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed builtin
var builtinFS embed.FS

// Builtin returns the registry of widgets bundled with Orchard.
func Builtin() (*Registry, error) {
	b := NewBuilder()
	if _, err := LoadFS(builtinFS, "builtin", b); err != nil {
		return nil, fmt.Errorf("load builtin widgets: %w", err)
	}
	return b.Build()
}

// MustBuiltin is Builtin for tests and static setup; it panics on error.
func MustBuiltin() *Registry {
	r, err := Builtin()
	if err != nil {
		panic(err)
	}
	return r
}

// Load builds a registry from the bundled widgets (unless skipBuiltin) plus
// every registration directory or file in paths. A file is read whatever its
// name; its extension selects HCL or YAML.
func Load(paths []string, skipBuiltin bool) (*Registry, error) {
	b := NewBuilder()
	if !skipBuiltin {
		if _, err := LoadFS(builtinFS, "builtin", b); err != nil {
			return nil, fmt.Errorf("load builtin widgets: %w", err)
		}
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("widget registrations: %w", err)
		}
		if info.IsDir() {
			if _, err := LoadFS(os.DirFS(p), ".", b); err != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}
			continue
		}
		content, err := os.ReadFile(p) //nolint:gosec // G304: registration paths come from config
		if err != nil {
			return nil, fmt.Errorf("widget registrations: %w", err)
		}
		if filepath.Ext(p) == ".hcl" {
			err = LoadHCL(content, p, b)
		} else {
			err = LoadYAML(content, b)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	return b.Build()
}
