package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/renval-dev/renval/internal/domain/execution"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// TranscriptFormatter formats a render report as a human-readable transcript.
type TranscriptFormatter struct {
	writer      io.Writer
	EnableColor bool
}

// NewTranscriptFormatter creates a new transcript formatter.
func NewTranscriptFormatter(w io.Writer) *TranscriptFormatter {
	return &TranscriptFormatter{
		writer:      w,
		EnableColor: true, // Default to true, caller can disable
	}
}

// colorize returns the string wrapped in ANSI color codes if enabled.
func (f *TranscriptFormatter) colorize(text, code string) string {
	if !f.EnableColor {
		return text
	}
	return code + text + colorReset
}

// Format writes the render report as a transcript.
//
//nolint:errcheck // Transcript formatting errors are non-critical (best-effort terminal output)
func (f *TranscriptFormatter) Format(report *execution.RenderReport) error {
	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 72), colorGray))
	fmt.Fprintf(f.writer, "Render run: %s\n", f.colorize(report.RunID, colorBold))
	if report.TemplatePath != "" {
		fmt.Fprintf(f.writer, "Template: %s\n", report.TemplatePath)
	}
	fmt.Fprintf(f.writer, "Started: %s\n", report.StartTime.Format(time.RFC3339))
	fmt.Fprintf(f.writer, "Duration: %s\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintln(f.writer)

	fmt.Fprintf(f.writer, "Variables (%d): %s\n", len(report.VariableNames), strings.Join(report.VariableNames, ", "))
	fmt.Fprintf(f.writer, "Secrets (%d): %s\n", len(report.SecretNames), strings.Join(report.SecretNames, ", "))
	if len(report.Overridden) > 0 {
		fmt.Fprintf(f.writer, "Overridden by secrets: %s\n", strings.Join(report.Overridden, ", "))
	}

	if report.MaskedEnv != "" {
		fmt.Fprintln(f.writer)
		fmt.Fprintln(f.writer, "Environment (masked):")
		for _, line := range strings.Split(strings.TrimRight(report.MaskedEnv, "\n"), "\n") {
			fmt.Fprintf(f.writer, "  %s\n", line)
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintln(f.writer)
		for _, w := range report.Warnings {
			fmt.Fprintf(f.writer, "%s %s\n", f.colorize("WARN", colorYellow), w)
		}
	}

	if len(report.Unresolved) > 0 {
		fmt.Fprintln(f.writer)
		for _, p := range report.Unresolved {
			fmt.Fprintf(f.writer, "%s %s\n", f.colorize("NOTE", colorYellow), p)
		}
	}

	fmt.Fprintln(f.writer)
	switch report.Outcome {
	case execution.OutcomeClean:
		fmt.Fprintf(f.writer, "Outcome: %s (%d bytes rendered)\n", f.colorize("clean", colorGreen), report.RenderedBytes)
	case execution.OutcomeDegraded:
		fmt.Fprintf(f.writer, "Outcome: %s (%d bytes rendered, %d warnings, %d unresolved)\n",
			f.colorize("degraded", colorYellow), report.RenderedBytes, len(report.Warnings), len(report.Unresolved))
	case execution.OutcomeFailed:
		fmt.Fprintf(f.writer, "Outcome: %s: %s\n", f.colorize("failed", colorRed), report.FailureMessage)
	}
	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 72), colorGray))

	return nil
}
