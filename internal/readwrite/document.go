// Package readwrite stores workflows as YAML documents.
//
// Documents are written from and read into scheme values. Fragments use the
// same layout for the clipboard and carry only the copied entities.
package readwrite

import "errors"

// Document format tags.
const (
	FormatWorkflow = "orchard-workflow"
	FormatFragment = "orchard-fragment"
	Version        = "1.0"
)

// FragmentMIME tags clipboard payloads holding a workflow fragment.
const FragmentMIME = "application/vnd.orchard.workflow-fragment"

// Sentinel errors.
var (
	ErrInvalidDocument = errors.New("invalid workflow document")
	ErrUnsupported     = errors.New("unsupported workflow version")
	ErrUnknownWidget   = errors.New("unknown widget")
	ErrUnknownNode     = errors.New("link references unknown node")
)

type documentFile struct {
	Format      string         `yaml:"format"`
	Version     string         `yaml:"version"`
	Title       string         `yaml:"title,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Graph       graphDef       `yaml:",inline"`
	Presets     []presetDef    `yaml:"window_presets,omitempty"`
	Env         map[string]any `yaml:"env,omitempty"`
}

type graphDef struct {
	Nodes       []nodeDef       `yaml:"nodes,omitempty"`
	Links       []linkDef       `yaml:"links,omitempty"`
	Annotations []annotationDef `yaml:"annotations,omitempty"`
}

type nodeDef struct {
	ID         string         `yaml:"id"`
	Kind       string         `yaml:"kind,omitempty"`
	Widget     string         `yaml:"widget,omitempty"`
	Title      string         `yaml:"title"`
	Position   [2]float64     `yaml:"position,flow"`
	Properties map[string]any `yaml:"properties,omitempty"`
	// Inputs and Outputs list instance channels when they differ from the
	// widget description.
	Inputs  []channelDef `yaml:"inputs,omitempty"`
	Outputs []channelDef `yaml:"outputs,omitempty"`
	// Channel is the boundary channel of an input or output proxy.
	Channel *channelDef `yaml:"channel,omitempty"`
	// Graph is the content of a meta node.
	Graph *graphDef `yaml:"graph,omitempty"`
}

type channelDef struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Handler string   `yaml:"handler,omitempty"`
	Flags   []string `yaml:"flags,omitempty,flow"`
}

type linkDef struct {
	ID            string         `yaml:"id"`
	Source        string         `yaml:"source"`
	SourceChannel string         `yaml:"source_channel"`
	Sink          string         `yaml:"sink"`
	SinkChannel   string         `yaml:"sink_channel"`
	Enabled       *bool          `yaml:"enabled,omitempty"`
	Properties    map[string]any `yaml:"properties,omitempty"`
}

type annotationDef struct {
	ID          string      `yaml:"id"`
	Type        string      `yaml:"type"`
	Rect        *[4]float64 `yaml:"rect,omitempty,flow"`
	Content     string      `yaml:"content,omitempty"`
	ContentType string      `yaml:"content_type,omitempty"`
	Font        *fontDef    `yaml:"font,omitempty"`
	Start       *[2]float64 `yaml:"start,omitempty,flow"`
	End         *[2]float64 `yaml:"end,omitempty,flow"`
	Color       string      `yaml:"color,omitempty"`
}

type fontDef struct {
	Family string `yaml:"family,omitempty"`
	Size   int    `yaml:"size,omitempty"`
}

type presetDef struct {
	Name    string     `yaml:"name"`
	Default bool       `yaml:"default,omitempty"`
	State   []stateDef `yaml:"state,omitempty"`
}

type stateDef struct {
	Node string `yaml:"node"`
	Data string `yaml:"data"` // base64
}

// Node kinds as written.
const (
	kindWidget = "widget"
	kindMeta   = "meta"
	kindInput  = "input"
	kindOutput = "output"
)
