package output

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/renval-dev/renval/internal/domain/execution"
)

// YAMLFormatter formats render reports as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the render report as YAML.
func (f *YAMLFormatter) Format(report *execution.RenderReport) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))

	if err := encoder.Encode(report); err != nil {
		return err
	}

	return encoder.Close()
}
