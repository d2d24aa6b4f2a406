// Package presentation renders command line output.
package presentation

import (
	"encoding/json"
	"io"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatWidgets formats a list of widgets as JSON
func (f *Formatter) FormatWidgets(widgets []WidgetDTO) error {
	return f.encode(widgets)
}

// FormatStats formats usage statistics as JSON
func (f *Formatter) FormatStats(stats StatsDTO) error {
	return f.encode(stats)
}

// FormatValidation formats a validation report as JSON
func (f *Formatter) FormatValidation(v ValidationDTO) error {
	return f.encode(v)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
