// Package services contains application use cases.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/renval-dev/renval/internal/application/ports"
	"github.com/renval-dev/renval/internal/domain/entities"
	"github.com/renval-dev/renval/internal/domain/execution"
	"github.com/renval-dev/renval/internal/infrastructure/assertions"
	"github.com/renval-dev/renval/internal/infrastructure/resolve"
	"github.com/renval-dev/renval/internal/infrastructure/template"
	"github.com/renval-dev/renval/internal/infrastructure/validation"
)

// EnvironmentMasker produces the redacted environment transcript.
type EnvironmentMasker interface {
	MaskedEnvironment(env map[string]string) string
}

// RenderRequest carries the inputs of one render run.
type RenderRequest struct {
	// Template is the values document text containing ${NAME} placeholders.
	Template string
	// TemplatePath is recorded on the report for diagnostics; may be empty.
	TemplatePath string
	// VarsJSON is the plain variable mapping as a JSON object string.
	VarsJSON string
	// SecretsJSON is the secret-reference mapping as a JSON object string.
	SecretsJSON string
	// StrictSecrets aborts the run when any secret reference is missing.
	StrictSecrets bool
	// StrictPlaceholders aborts the run when any placeholder stays unresolved.
	StrictPlaceholders bool
	// Interactive prompts for values of unresolved placeholders when a
	// terminal is attached.
	Interactive bool
	// Requirements are post-render assertion expressions over the resolved
	// environment; any failure aborts the run.
	Requirements []string
	// SchemaPath optionally validates the rendered document against a JSON
	// Schema before it is handed to the deployment tool.
	SchemaPath string
	// Version is stamped on the report.
	Version string
}

// RenderValuesUseCase orchestrates the render pipeline:
// parse -> resolve -> render -> mask.
type RenderValuesUseCase struct {
	store    ports.SecretResolver
	masker   EnvironmentMasker
	prompter ports.ValuePrompter
	logger   *slog.Logger
}

// NewRenderValuesUseCase creates a new render use case.
// prompter may be nil when interactive runs are not supported.
func NewRenderValuesUseCase(
	store ports.SecretResolver,
	masker EnvironmentMasker,
	prompter ports.ValuePrompter,
	logger *slog.Logger,
) *RenderValuesUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	return &RenderValuesUseCase{
		store:    store,
		masker:   masker,
		prompter: prompter,
		logger:   logger,
	}
}

// Execute runs the render pipeline. The report is always non-nil - on
// failure after resolution it still carries the masked environment so a
// partial run can be diagnosed without leaking values.
func (uc *RenderValuesUseCase) Execute(ctx context.Context, req RenderRequest) (string, *execution.RenderReport, error) {
	report := &execution.RenderReport{
		RunID:         uuid.NewString(),
		RenvalVersion: req.Version,
		TemplatePath:  req.TemplatePath,
		StartTime:     time.Now(),
		StrictSecrets: req.StrictSecrets,
		StrictRender:  req.StrictPlaceholders,
	}

	vars, err := entities.ParseMapping(req.VarsJSON)
	if err != nil {
		report.Fail(err)
		return "", report, err
	}

	secrets, err := entities.ParseMapping(req.SecretsJSON)
	if err != nil {
		report.Fail(err)
		return "", report, err
	}

	report.VariableNames = vars.Names()
	report.SecretNames = secrets.Names()
	report.Overridden = vars.Overlap(secrets)

	env, warnings, err := resolve.Resolve(ctx, vars, secrets, uc.store)
	if err != nil {
		report.Fail(err)
		return "", report, err
	}

	report.Warnings = warnings
	report.MaskedEnv = uc.masker.MaskedEnvironment(env)

	if req.StrictSecrets && len(warnings) > 0 {
		strictErr := &entities.MissingSecretError{Warnings: warnings}
		report.Fail(strictErr)
		return "", report, strictErr
	}

	result := template.Render(req.Template, env)

	if req.Interactive && len(result.Unresolved) > 0 {
		result, env = uc.promptForMissing(req.Template, env, result)
		report.MaskedEnv = uc.masker.MaskedEnvironment(env)
	}

	report.Unresolved = result.Unresolved
	report.RenderedBytes = len(result.Document)

	for _, p := range result.Unresolved {
		uc.logger.Warn("placeholder left unresolved", "name", p.Name, "line", p.Line, "column", p.Column)
	}

	if req.StrictPlaceholders && len(result.Unresolved) > 0 {
		strictErr := &entities.UnresolvedPlaceholderError{Placeholders: result.Unresolved}
		report.Fail(strictErr)
		return result.Document, report, strictErr
	}

	if err := assertions.Check(req.Requirements, env, len(report.Warnings), len(result.Unresolved)); err != nil {
		report.Fail(err)
		return result.Document, report, err
	}

	if req.SchemaPath != "" {
		if err := validation.ValidateDocument(result.Document, req.SchemaPath); err != nil {
			report.Fail(err)
			return result.Document, report, err
		}
	}

	report.Finish()
	return result.Document, report, nil
}

// promptForMissing asks for values of unresolved placeholders and re-renders.
// Declined prompts leave the placeholder in place.
func (uc *RenderValuesUseCase) promptForMissing(
	tmpl string,
	env resolve.Environment,
	result template.Result,
) (template.Result, resolve.Environment) {
	if uc.prompter == nil || !uc.prompter.IsInteractive() {
		uc.logger.Debug("interactive prompting unavailable, keeping placeholders")
		return result, env
	}

	prompted := false
	seen := make(map[string]bool, len(result.Unresolved))
	for _, p := range result.Unresolved {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true

		value, ok, err := uc.prompter.PromptForValue(p.Name)
		if err != nil {
			uc.logger.Warn("prompt failed, keeping placeholder", "name", p.Name, "error", err)
			continue
		}
		if !ok {
			continue
		}

		env[p.Name] = value
		prompted = true
		uc.logger.Info("setting variable", "name", p.Name, "source", "prompt")
	}

	if !prompted {
		return result, env
	}
	return template.Render(tmpl, env), env
}
