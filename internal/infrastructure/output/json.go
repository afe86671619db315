package output

import (
	"encoding/json"
	"io"

	"github.com/renval-dev/renval/internal/domain/execution"
)

// JSONFormatter formats render reports as JSON.
type JSONFormatter struct {
	writer io.Writer
	indent string
}

// NewJSONFormatter creates a new JSON formatter.
// An empty indent produces compact output.
func NewJSONFormatter(w io.Writer, indent string) *JSONFormatter {
	return &JSONFormatter{writer: w, indent: indent}
}

// Format writes the render report as JSON.
func (f *JSONFormatter) Format(report *execution.RenderReport) error {
	encoder := json.NewEncoder(f.writer)
	if f.indent != "" {
		encoder.SetIndent("", f.indent)
	}
	return encoder.Encode(report)
}
