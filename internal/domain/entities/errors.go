package entities

import "fmt"

// MalformedMappingError indicates a mapping input was not a valid JSON object
// of string-to-string pairs. It is fatal: no substitution happens after it.
type MalformedMappingError struct {
	// Reason describes what was wrong with the input.
	Reason string
	// Offset is the byte position of the parse failure, 0 when unknown.
	Offset int64
}

func (e *MalformedMappingError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("malformed mapping at offset %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("malformed mapping: %s", e.Reason)
}

// MissingSecretWarning records a secret reference that could not be resolved.
// The affected variable is bound to an empty string and resolution continues,
// unless strict secret handling was requested.
type MissingSecretWarning struct {
	// Name is the variable that referenced the secret.
	Name string `json:"name" yaml:"name"`
	// SecretRef is the lookup key that came back empty or absent.
	SecretRef string `json:"secret_ref" yaml:"secret_ref"`
}

func (w MissingSecretWarning) String() string {
	return fmt.Sprintf("secret not found for variable %s (secret: %s)", w.Name, w.SecretRef)
}

// MissingSecretError is the strict-mode escalation of MissingSecretWarning.
type MissingSecretError struct {
	Warnings []MissingSecretWarning
}

func (e *MissingSecretError) Error() string {
	if len(e.Warnings) == 1 {
		return fmt.Sprintf("secret %q for variable %q not found", e.Warnings[0].SecretRef, e.Warnings[0].Name)
	}
	return fmt.Sprintf("%d secrets could not be resolved", len(e.Warnings))
}

// UnresolvedPlaceholder records a ${NAME} token that had no mapping entry and
// no default clause. The token is left verbatim in the rendered document so a
// downstream tool failure points straight at the incomplete mapping.
type UnresolvedPlaceholder struct {
	// Name is the placeholder's variable name.
	Name string `json:"name" yaml:"name"`
	// Line and Column locate the token in the template, 1-based.
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p UnresolvedPlaceholder) String() string {
	return fmt.Sprintf("unresolved placeholder ${%s} at %d:%d", p.Name, p.Line, p.Column)
}

// UnresolvedPlaceholderError is the strict-mode escalation of the
// unresolved-placeholder notice.
type UnresolvedPlaceholderError struct {
	Placeholders []UnresolvedPlaceholder
}

func (e *UnresolvedPlaceholderError) Error() string {
	if len(e.Placeholders) == 1 {
		p := e.Placeholders[0]
		return fmt.Sprintf("placeholder ${%s} at %d:%d has no value", p.Name, p.Line, p.Column)
	}
	return fmt.Sprintf("%d placeholders have no value", len(e.Placeholders))
}
