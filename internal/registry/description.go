package registry

import "strings"

// SignalFlag is a bit set of channel options.
type SignalFlag uint8

const (
	// FlagDefault marks the channel preferred when proposing links.
	FlagDefault SignalFlag = 1 << iota
	// FlagExplicit excludes the channel from automatic link proposals.
	FlagExplicit
	// FlagDynamic marks an output whose concrete type is only known at run
	// time to be some subtype of its declared type.
	FlagDynamic
)

// Has reports whether all bits of f are set.
func (s SignalFlag) Has(f SignalFlag) bool {
	return s&f == f
}

// InputSignal describes one input channel of a widget.
type InputSignal struct {
	Name    string
	Type    string
	Handler string // method invoked on the widget when a value arrives
	Flags   SignalFlag
}

// ChannelName returns the channel name.
func (s *InputSignal) ChannelName() string { return s.Name }

// Clone returns an independent copy of the signal.
func (s *InputSignal) Clone() *InputSignal {
	c := *s
	return &c
}

func (s *InputSignal) String() string {
	return s.Name + ":" + s.Type
}

// OutputSignal describes one output channel of a widget.
type OutputSignal struct {
	Name  string
	Type  string
	Flags SignalFlag
}

// ChannelName returns the channel name.
func (s *OutputSignal) ChannelName() string { return s.Name }

// Dynamic reports whether the output carries FlagDynamic.
func (s *OutputSignal) Dynamic() bool { return s.Flags.Has(FlagDynamic) }

// Clone returns an independent copy of the signal.
func (s *OutputSignal) Clone() *OutputSignal {
	c := *s
	return &c
}

func (s *OutputSignal) String() string {
	return s.Name + ":" + s.Type
}

// CategoryDescription groups widgets in the toolbox.
type CategoryDescription struct {
	name        string
	description string
	background  string // styling hint, a color name or hex value
	priority    int
	hidden      bool
}

// NewCategory creates a category description.
func NewCategory(name, description, background string, priority int, hidden bool) *CategoryDescription {
	return &CategoryDescription{
		name:        name,
		description: description,
		background:  background,
		priority:    priority,
		hidden:      hidden,
	}
}

// Name returns the category display name.
func (c *CategoryDescription) Name() string { return c.name }

// Description returns the category description.
func (c *CategoryDescription) Description() string { return c.description }

// Background returns the styling hint.
func (c *CategoryDescription) Background() string { return c.background }

// Priority orders categories; lower values come first.
func (c *CategoryDescription) Priority() int { return c.priority }

// Hidden reports whether the category is left out of the toolbox.
func (c *CategoryDescription) Hidden() bool { return c.hidden }

// WidgetDescription describes a kind of node.
type WidgetDescription struct {
	qualifiedName string
	name          string
	category      string
	description   string
	keywords      []string
	priority      int
	inputs        []*InputSignal
	outputs       []*OutputSignal
	defaults      map[string]any
}

// QualifiedName uniquely identifies the widget, e.g. "orchard.data.File".
func (w *WidgetDescription) QualifiedName() string { return w.qualifiedName }

// Name returns the display name, also the default title of new nodes.
func (w *WidgetDescription) Name() string { return w.name }

// Category returns the owning category name.
func (w *WidgetDescription) Category() string { return w.category }

// Description returns the long description (markdown).
func (w *WidgetDescription) Description() string { return w.description }

// Keywords returns search keywords.
func (w *WidgetDescription) Keywords() []string { return append([]string(nil), w.keywords...) }

// Priority orders widgets within a category; lower values come first.
func (w *WidgetDescription) Priority() int { return w.priority }

// Inputs returns the declared input channels in order.
// The returned pointers are shared; treat them as read-only.
func (w *WidgetDescription) Inputs() []*InputSignal { return append([]*InputSignal(nil), w.inputs...) }

// Outputs returns the declared output channels in order.
func (w *WidgetDescription) Outputs() []*OutputSignal {
	return append([]*OutputSignal(nil), w.outputs...)
}

// Input resolves an input channel by exact name or unique prefix.
func (w *WidgetDescription) Input(name string) (*InputSignal, error) {
	return FindChannel(w.inputs, name)
}

// Output resolves an output channel by exact name or unique prefix.
func (w *WidgetDescription) Output(name string) (*OutputSignal, error) {
	return FindChannel(w.outputs, name)
}

// DefaultProperties returns a copy of the initial property bag for new nodes.
func (w *WidgetDescription) DefaultProperties() map[string]any {
	props := make(map[string]any, len(w.defaults))
	for k, v := range w.defaults {
		props[k] = v
	}
	return props
}

func (w *WidgetDescription) matches(query string) bool {
	if strings.Contains(strings.ToLower(w.name), query) ||
		strings.Contains(strings.ToLower(w.category), query) ||
		strings.Contains(strings.ToLower(w.qualifiedName), query) {
		return true
	}
	for _, k := range w.keywords {
		if strings.Contains(strings.ToLower(k), query) {
			return true
		}
	}
	return false
}
