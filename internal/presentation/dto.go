package presentation

import (
	"time"

	"github.com/zjrosen/orchard/internal/infrastructure/sqlite"
	"github.com/zjrosen/orchard/internal/registry"
	"github.com/zjrosen/orchard/internal/scheme"
)

// WidgetDTO represents a widget description for presentation
type WidgetDTO struct {
	QualifiedName string       `json:"qualified_name"`
	Name          string       `json:"name"`
	Category      string       `json:"category"`
	Description   string       `json:"description,omitempty"`
	Keywords      []string     `json:"keywords,omitempty"`
	Inputs        []ChannelDTO `json:"inputs"`
	Outputs       []ChannelDTO `json:"outputs"`
}

// ChannelDTO represents one input or output channel
type ChannelDTO struct {
	Name  string   `json:"name"`
	Type  string   `json:"type"`
	Flags []string `json:"flags,omitempty"`
}

func flagNames(f registry.SignalFlag) []string {
	var out []string
	if f.Has(registry.FlagDefault) {
		out = append(out, "default")
	}
	if f.Has(registry.FlagExplicit) {
		out = append(out, "explicit")
	}
	if f.Has(registry.FlagDynamic) {
		out = append(out, "dynamic")
	}
	return out
}

// FromWidget converts a widget description to a DTO.
func FromWidget(w *registry.WidgetDescription) WidgetDTO {
	inputs := make([]ChannelDTO, 0)
	for _, in := range w.Inputs() {
		inputs = append(inputs, ChannelDTO{Name: in.Name, Type: in.Type, Flags: flagNames(in.Flags)})
	}
	outputs := make([]ChannelDTO, 0)
	for _, out := range w.Outputs() {
		outputs = append(outputs, ChannelDTO{Name: out.Name, Type: out.Type, Flags: flagNames(out.Flags)})
	}
	return WidgetDTO{
		QualifiedName: w.QualifiedName(),
		Name:          w.Name(),
		Category:      w.Category(),
		Description:   w.Description(),
		Keywords:      w.Keywords(),
		Inputs:        inputs,
		Outputs:       outputs,
	}
}

// FromWidgets converts a slice of widget descriptions to DTOs
func FromWidgets(ws []*registry.WidgetDescription) []WidgetDTO {
	dtos := make([]WidgetDTO, len(ws))
	for i, w := range ws {
		dtos[i] = FromWidget(w)
	}
	return dtos
}

// UsageDTO is one row of the usage statistics.
type UsageDTO struct {
	QualifiedName string    `json:"qualified_name"`
	Created       int       `json:"created"`
	Total         int       `json:"total"`
	LastUsed      time.Time `json:"last_used"`
}

// StatsDTO summarizes the usage database.
type StatsDTO struct {
	Sessions int        `json:"sessions"`
	Widgets  []UsageDTO `json:"widgets"`
}

// FromUsage converts usage counts to a StatsDTO.
func FromUsage(sessions int, counts []sqlite.UsageCount) StatsDTO {
	widgets := make([]UsageDTO, len(counts))
	for i, c := range counts {
		widgets[i] = UsageDTO{
			QualifiedName: c.QualifiedName,
			Created:       c.Created,
			Total:         c.Total,
			LastUsed:      c.LastUsed,
		}
	}
	return StatsDTO{Sessions: sessions, Widgets: widgets}
}

// ValidationDTO reports the result of reading a document.
type ValidationDTO struct {
	Path     string   `json:"path"`
	Title    string   `json:"title,omitempty"`
	Valid    bool     `json:"valid"`
	Nodes    int      `json:"nodes"`
	Links    int      `json:"links"`
	Macros   int      `json:"macros"`
	Warnings []string `json:"warnings"`
}

// FromScheme counts the contents of s, including macro bodies. s may be nil
// when the document could not be read.
func FromScheme(path string, s *scheme.Scheme, warnings []error) ValidationDTO {
	dto := ValidationDTO{Path: path, Valid: len(warnings) == 0, Warnings: make([]string, 0, len(warnings))}
	for _, w := range warnings {
		dto.Warnings = append(dto.Warnings, w.Error())
	}
	if s == nil {
		dto.Valid = false
		return dto
	}
	dto.Title = s.Title()
	dto.count(s.Root())
	return dto
}

func (v *ValidationDTO) count(g *scheme.Graph) {
	v.Links += len(g.Links())
	for _, n := range g.Nodes() {
		if n.IsMeta() {
			v.Macros++
			v.count(n.SubGraph())
			continue
		}
		v.Nodes++
	}
}
