// Package execution provides domain models for render run results.
package execution

import (
	"time"

	"github.com/renval-dev/renval/internal/domain/entities"
)

// Outcome classifies how a render run ended.
type Outcome string

const (
	// OutcomeClean means every placeholder resolved and no warnings were raised.
	OutcomeClean Outcome = "clean"
	// OutcomeDegraded means rendering completed but with missing secrets or
	// unresolved placeholders left in the document.
	OutcomeDegraded Outcome = "degraded"
	// OutcomeFailed means rendering aborted before producing a usable document.
	OutcomeFailed Outcome = "failed"
)

// RenderReport is the audit record of one render run. It names every variable
// that was set but never carries a resolved value; the masked transcript is
// the only value-shaped output and it is redacted.
type RenderReport struct {
	RunID          string                           `json:"run_id" yaml:"run_id"`
	RenvalVersion  string                           `json:"renval_version,omitempty" yaml:"renval_version,omitempty"`
	TemplatePath   string                           `json:"template_path,omitempty" yaml:"template_path,omitempty"`
	StartTime      time.Time                        `json:"start_time" yaml:"start_time"`
	EndTime        time.Time                        `json:"end_time" yaml:"end_time"`
	Duration       time.Duration                    `json:"duration_ms" yaml:"duration_ms"`
	Outcome        Outcome                          `json:"outcome" yaml:"outcome"`
	VariableNames  []string                         `json:"variable_names" yaml:"variable_names"`
	SecretNames    []string                         `json:"secret_names" yaml:"secret_names"`
	Overridden     []string                         `json:"overridden,omitempty" yaml:"overridden,omitempty"`
	Warnings       []entities.MissingSecretWarning  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Unresolved     []entities.UnresolvedPlaceholder `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
	RenderedBytes  int                              `json:"rendered_bytes" yaml:"rendered_bytes"`
	StrictSecrets  bool                             `json:"strict_secrets" yaml:"strict_secrets"`
	StrictRender   bool                             `json:"strict_placeholders" yaml:"strict_placeholders"`
	MaskedEnv      string                           `json:"masked_env,omitempty" yaml:"masked_env,omitempty"`
	FailureMessage string                           `json:"failure,omitempty" yaml:"failure,omitempty"`
}

// Finish stamps the end time and derives the outcome from the recorded
// warnings and unresolved placeholders.
func (r *RenderReport) Finish() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)

	switch {
	case r.FailureMessage != "":
		r.Outcome = OutcomeFailed
	case len(r.Warnings) > 0 || len(r.Unresolved) > 0:
		r.Outcome = OutcomeDegraded
	default:
		r.Outcome = OutcomeClean
	}
}

// Fail marks the run failed. The masked transcript stays on the report so a
// partial failure can still be diagnosed without leaking values.
func (r *RenderReport) Fail(err error) {
	r.FailureMessage = err.Error()
	r.Finish()
}
