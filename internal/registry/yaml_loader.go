package registry

import (
	"fmt"
	"io/fs"
	stdpath "path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/orchard/internal/log"
)

// RegistryFile is the root structure of a YAML widget registration file.
type RegistryFile struct {
	Categories []CategoryDef `yaml:"categories"`
	Adapters   []AdapterDef  `yaml:"adapters"`
	Widgets    []WidgetDef   `yaml:"widgets"`
}

// CategoryDef defines a category in YAML.
type CategoryDef struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Background  string `yaml:"background"`
	Priority    int    `yaml:"priority"`
	Hidden      bool   `yaml:"hidden"`
}

// AdapterDef declares a type conversion.
type AdapterDef struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// WidgetDef defines a widget in YAML.
type WidgetDef struct {
	QualifiedName string         `yaml:"qualified_name"`
	Name          string         `yaml:"name"`
	Category      string         `yaml:"category"`
	Description   string         `yaml:"description"`
	Keywords      []string       `yaml:"keywords"`
	Priority      int            `yaml:"priority"`
	Inputs        []ChannelDef   `yaml:"inputs"`
	Outputs       []ChannelDef   `yaml:"outputs"`
	Defaults      map[string]any `yaml:"defaults"`
}

// ChannelDef defines an input or output channel. Handler is ignored for outputs.
type ChannelDef struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Handler string   `yaml:"handler"`
	Flags   []string `yaml:"flags"`
}

// IsRegistrationFile reports whether a file name is picked up by LoadFS.
func IsRegistrationFile(name string) bool {
	return name == "registry.yaml" || strings.HasSuffix(name, ".widgets.yaml") || strings.HasSuffix(name, ".hcl")
}

// LoadFS walks fsys from root and feeds every registration file into b:
// registry.yaml and *.widgets.yaml files as YAML, *.hcl files as HCL.
// It returns the number of files read.
func LoadFS(fsys fs.FS, root string, b *Builder) (int, error) {
	files := 0
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsRegistrationFile(d.Name()) {
			return nil
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		if stdpath.Ext(path) == ".hcl" {
			err = LoadHCL(content, path, b)
		} else {
			err = LoadYAML(content, b)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		files++
		log.Debug(log.CatRegistry, "loaded registration file", "path", path)
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("scan widget registrations: %w", err)
	}
	if files == 0 {
		return 0, fmt.Errorf("%w under %q", ErrNoRegistrationFiles, root)
	}
	return files, nil
}

// LoadYAML parses one YAML registration file into b.
func LoadYAML(content []byte, b *Builder) error {
	var file RegistryFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return fmt.Errorf("parse registry yaml: %w", err)
	}

	for _, c := range file.Categories {
		b.AddCategory(NewCategory(c.Name, c.Description, c.Background, c.Priority, c.Hidden))
	}
	for _, a := range file.Adapters {
		b.Adapter(a.From, a.To)
	}
	for _, def := range file.Widgets {
		wb, err := widgetFromDef(def)
		if err != nil {
			return fmt.Errorf("widget %s: %w", def.QualifiedName, err)
		}
		b.AddWidgetBuilder(wb)
	}
	return nil
}

func widgetFromDef(def WidgetDef) (*WidgetBuilder, error) {
	wb := NewWidget(def.QualifiedName).
		Name(def.Name).
		Category(def.Category).
		Description(def.Description).
		Keywords(def.Keywords...).
		Priority(def.Priority)

	for _, in := range def.Inputs {
		flags, err := ParseFlags(in.Flags)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", in.Name, err)
		}
		wb.Input(in.Name, in.Type, in.Handler, flags)
	}
	for _, out := range def.Outputs {
		flags, err := ParseFlags(out.Flags)
		if err != nil {
			return nil, fmt.Errorf("output %s: %w", out.Name, err)
		}
		wb.Output(out.Name, out.Type, flags)
	}
	for k, v := range def.Defaults {
		wb.Default(k, v)
	}
	return wb, nil
}

// ParseFlags converts flag names ("default", "explicit", "dynamic").
func ParseFlags(names []string) (SignalFlag, error) {
	var f SignalFlag
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "default":
			f |= FlagDefault
		case "explicit":
			f |= FlagExplicit
		case "dynamic":
			f |= FlagDynamic
		default:
			return 0, fmt.Errorf("%w: unknown channel flag %q", ErrInvalidDescription, n)
		}
	}
	return f, nil
}
