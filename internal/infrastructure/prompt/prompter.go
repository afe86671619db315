// Package prompt provides interactive value entry for placeholders that
// resolution left unset. Intended for local debugging of incomplete mappings,
// never for CI runs.
package prompt

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
)

// TerminalPrompter implements ports.ValuePrompter using terminal forms.
type TerminalPrompter struct{}

// NewTerminalPrompter creates a new TerminalPrompter.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{}
}

// IsInteractive checks if we're running in an interactive terminal.
func (p *TerminalPrompter) IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	// A character device means a terminal, not a pipe or file.
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// PromptForValue asks for a value for the named placeholder.
// Submitting an empty value counts as declining; the placeholder then stays
// unresolved in the document.
func (p *TerminalPrompter) PromptForValue(name string) (string, bool, error) {
	var value string
	err := huh.NewInput().
		Title(fmt.Sprintf("Value for ${%s}", name)).
		Description("Leave empty to keep the placeholder unresolved.").
		Value(&value).
		Run()
	if err != nil {
		return "", false, fmt.Errorf("prompting for %s: %w", name, err)
	}

	if value == "" {
		return "", false, nil
	}
	return value, true, nil
}
