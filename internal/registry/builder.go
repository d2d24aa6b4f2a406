package registry

import (
	"errors"
	"fmt"
)

// WidgetBuilder provides a fluent API for creating widget descriptions.
type WidgetBuilder struct {
	w *WidgetDescription
}

// NewWidget starts a widget description with the given qualified name.
func NewWidget(qualifiedName string) *WidgetBuilder {
	return &WidgetBuilder{w: &WidgetDescription{
		qualifiedName: qualifiedName,
		defaults:      make(map[string]any),
	}}
}

// Name sets the display name. Defaults to the last dotted segment of the
// qualified name.
func (b *WidgetBuilder) Name(n string) *WidgetBuilder {
	b.w.name = n
	return b
}

// Category sets the owning category.
func (b *WidgetBuilder) Category(c string) *WidgetBuilder {
	b.w.category = c
	return b
}

// Description sets the long description.
func (b *WidgetBuilder) Description(d string) *WidgetBuilder {
	b.w.description = d
	return b
}

// Keywords sets search keywords.
func (b *WidgetBuilder) Keywords(k ...string) *WidgetBuilder {
	b.w.keywords = k
	return b
}

// Priority sets the ordering within the category.
func (b *WidgetBuilder) Priority(p int) *WidgetBuilder {
	b.w.priority = p
	return b
}

// Input appends an input channel.
func (b *WidgetBuilder) Input(name, typ, handler string, flags ...SignalFlag) *WidgetBuilder {
	b.w.inputs = append(b.w.inputs, &InputSignal{Name: name, Type: typ, Handler: handler, Flags: joinFlags(flags)})
	return b
}

// Output appends an output channel.
func (b *WidgetBuilder) Output(name, typ string, flags ...SignalFlag) *WidgetBuilder {
	b.w.outputs = append(b.w.outputs, &OutputSignal{Name: name, Type: typ, Flags: joinFlags(flags)})
	return b
}

// Default sets an initial node property.
func (b *WidgetBuilder) Default(key string, value any) *WidgetBuilder {
	b.w.defaults[key] = value
	return b
}

// Build validates and returns the description.
func (b *WidgetBuilder) Build() (*WidgetDescription, error) {
	w := b.w
	if w == nil {
		return nil, fmt.Errorf("%w: builder already used", ErrInvalidDescription)
	}
	if w.qualifiedName == "" {
		return nil, ErrEmptyQualifiedName
	}
	if w.name == "" {
		w.name = lastSegment(w.qualifiedName)
	}
	if err := checkUniqueNames(w.inputs); err != nil {
		return nil, fmt.Errorf("%w: %s inputs: %w", ErrInvalidDescription, w.qualifiedName, err)
	}
	if err := checkUniqueNames(w.outputs); err != nil {
		return nil, fmt.Errorf("%w: %s outputs: %w", ErrInvalidDescription, w.qualifiedName, err)
	}
	for _, in := range w.inputs {
		if in.Name == "" || in.Type == "" {
			return nil, fmt.Errorf("%w: %s: input needs a name and a type", ErrInvalidDescription, w.qualifiedName)
		}
	}
	for _, out := range w.outputs {
		if out.Name == "" || out.Type == "" {
			return nil, fmt.Errorf("%w: %s: output needs a name and a type", ErrInvalidDescription, w.qualifiedName)
		}
	}
	b.w = nil
	return w, nil
}

// MustBuild is Build for static descriptions known to be valid. It panics on error.
func (b *WidgetBuilder) MustBuild() *WidgetDescription {
	w, err := b.Build()
	if err != nil {
		panic(err)
	}
	return w
}

func joinFlags(flags []SignalFlag) SignalFlag {
	var f SignalFlag
	for _, x := range flags {
		f |= x
	}
	return f
}

func lastSegment(qualifiedName string) string {
	for i := len(qualifiedName) - 1; i >= 0; i-- {
		if qualifiedName[i] == '.' {
			return qualifiedName[i+1:]
		}
	}
	return qualifiedName
}

// Builder collects categories, widgets and type adapters into a Registry.
type Builder struct {
	categories []*CategoryDescription
	widgets    []*WidgetDescription
	types      *TypeSystem
	errs       []error
}

// NewBuilder creates an empty registry builder.
func NewBuilder() *Builder {
	return &Builder{types: NewTypeSystem()}
}

// AddCategory registers a category.
func (b *Builder) AddCategory(c *CategoryDescription) *Builder {
	if c == nil || c.name == "" {
		b.errs = append(b.errs, ErrEmptyCategoryName)
		return b
	}
	b.categories = append(b.categories, c)
	return b
}

// AddWidget registers a widget description.
func (b *Builder) AddWidget(w *WidgetDescription) *Builder {
	if w == nil {
		b.errs = append(b.errs, fmt.Errorf("%w: nil widget", ErrInvalidDescription))
		return b
	}
	b.widgets = append(b.widgets, w)
	return b
}

// AddWidgetBuilder builds wb and registers the result, recording any error
// for Build to report.
func (b *Builder) AddWidgetBuilder(wb *WidgetBuilder) *Builder {
	w, err := wb.Build()
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	return b.AddWidget(w)
}

// Adapter declares that values of type from may be delivered to inputs of type to.
func (b *Builder) Adapter(from, to string) *Builder {
	b.types.addAdapter(from, to)
	return b
}

// Build validates the collected descriptions and returns the registry.
// Every problem found is reported, joined into one error.
func (b *Builder) Build() (*Registry, error) {
	errs := append([]error(nil), b.errs...)

	cats := make(map[string]*CategoryDescription, len(b.categories))
	for _, c := range b.categories {
		if _, ok := cats[c.name]; ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateCategory, c.name))
			continue
		}
		cats[c.name] = c
	}

	widgets := make(map[string]*WidgetDescription, len(b.widgets))
	for _, w := range b.widgets {
		if _, ok := widgets[w.qualifiedName]; ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateWidget, w.qualifiedName))
			continue
		}
		if _, ok := cats[w.category]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s references %q", ErrUnknownCategory, w.qualifiedName, w.category))
			continue
		}
		widgets[w.qualifiedName] = w
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return newRegistry(b.categories, b.widgets, cats, widgets, b.types), nil
}
