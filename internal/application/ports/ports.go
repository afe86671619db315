// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"
	"errors"

	"github.com/renval-dev/renval/internal/domain/execution"
)

// ErrSecretNotFound is returned by SecretResolver implementations when the
// referenced secret does not exist in any configured source. The caller turns
// it into a MissingSecretWarning rather than aborting.
var ErrSecretNotFound = errors.New("secret not found")

// SecretResolver resolves named secrets from an external store.
// Implementations automatically track resolved values for redaction.
type SecretResolver interface {
	// Resolve returns the secret value for the given reference.
	// Returns ErrSecretNotFound (possibly wrapped) when the store has no entry.
	Resolve(ctx context.Context, ref string) (string, error)
}

// SensitiveValueProvider tracks resolved secret values so every output path
// can redact them.
type SensitiveValueProvider interface {
	// Track registers a sensitive value to be protected (redacted).
	Track(value string)

	// AllValues returns all tracked sensitive values.
	AllValues() []string
}

// ReportFormatter renders a RenderReport to its output destination.
type ReportFormatter interface {
	Format(report *execution.RenderReport) error
}

// ValuePrompter supplies values for placeholders that resolution left unset.
// Used by interactive runs to patch incomplete mappings on the spot.
type ValuePrompter interface {
	// IsInteractive reports whether prompting is possible in this session.
	IsInteractive() bool

	// PromptForValue asks for a value for the named placeholder.
	PromptForValue(name string) (value string, ok bool, err error)
}
