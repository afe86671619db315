// Package output provides formatters for render run reports.
package output

import (
	"fmt"
	"io"

	"github.com/renval-dev/renval/internal/application/ports"
)

// FormatterOptions carries per-format settings.
type FormatterOptions struct {
	// Indent for JSON output.
	Indent string
	// TemplatePath locates warnings and notices in SARIF output.
	TemplatePath string
}

// FormatterFactory builds report formatters by name.
type FormatterFactory struct{}

// NewFormatterFactory creates a new formatter factory.
func NewFormatterFactory() *FormatterFactory {
	return &FormatterFactory{}
}

// Create returns a formatter for the given format name.
func (f *FormatterFactory) Create(
	format string,
	writer io.Writer,
	options FormatterOptions,
) (ports.ReportFormatter, error) {
	switch format {
	case "transcript":
		return NewTranscriptFormatter(writer), nil
	case "json":
		return NewJSONFormatter(writer, options.Indent), nil
	case "yaml":
		return NewYAMLFormatter(writer), nil
	case "sarif":
		return NewSARIFFormatter(writer, options.TemplatePath), nil
	default:
		return nil, fmt.Errorf(
			"unknown format: %s (supported: %v)",
			format, f.SupportedFormats(),
		)
	}
}

// SupportedFormats returns list of available format names.
func (f *FormatterFactory) SupportedFormats() []string {
	return []string{"transcript", "json", "yaml", "sarif"}
}
