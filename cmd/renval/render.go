package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/renval-dev/renval/internal/application/services"
	"github.com/renval-dev/renval/internal/domain/execution"
	"github.com/renval-dev/renval/internal/infrastructure/output"
	"github.com/renval-dev/renval/internal/infrastructure/prompt"
	"github.com/renval-dev/renval/internal/infrastructure/redaction"
	"github.com/renval-dev/renval/internal/infrastructure/secrets"
	"github.com/renval-dev/renval/internal/infrastructure/sensitivedata"
	"github.com/renval-dev/renval/internal/infrastructure/system"
	"github.com/renval-dev/renval/internal/version"
)

var (
	varsJSON           string
	varsFile           string
	secretsJSON        string
	secretsFile        string
	outFile            string
	reportFile         string
	format             string
	strictSecrets      bool
	strictPlaceholders bool
	interactive        bool
	requirements       []string
	schemaPath         string
	requireVersion     string
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <template>",
	Short: "Render a values template from variable and secret mappings",
	Long: `Merge a plain variable mapping and a secret-reference mapping, resolve the
secret references through the configured store, and substitute ${NAME} and
${NAME:-default} placeholders in the template.

The rendered document goes to --output (default stdout) for the deployment
tool to consume. The audit report goes to --report-output (default stderr)
through a redacting writer, so resolved values never appear in it.

Missing secrets bind the variable to an empty string and raise a warning;
use --strict-secrets to abort instead. Placeholders with no mapping entry
and no default are left verbatim and reported; use --strict-placeholders
to abort on those. Pass "-" as the template to read it from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRenderAction(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&varsJSON, "vars", "", "Variable mapping as a JSON object (name -> value)")
	renderCmd.Flags().StringVar(&varsFile, "vars-file", "", "File containing the variable mapping JSON")
	renderCmd.Flags().StringVar(&secretsJSON, "secrets", "", "Secret mapping as a JSON object (name -> secret reference)")
	renderCmd.Flags().StringVar(&secretsFile, "secrets-file", "", "File containing the secret mapping JSON")
	renderCmd.Flags().StringVarP(&outFile, "output", "o", "", "Rendered document path (default: stdout)")
	renderCmd.Flags().StringVar(&reportFile, "report-output", "", "Report path (default: stderr)")
	renderCmd.Flags().StringVar(&format, "format", "transcript", "Report format: transcript, json, yaml, sarif")
	renderCmd.Flags().BoolVar(&strictSecrets, "strict-secrets", false, "Fail when any secret reference cannot be resolved")
	renderCmd.Flags().BoolVar(&strictPlaceholders, "strict-placeholders", false, "Fail when any placeholder stays unresolved")
	renderCmd.Flags().BoolVar(&interactive, "interactive", false, "Prompt for values of unresolved placeholders")
	renderCmd.Flags().StringArrayVar(&requirements, "require", nil, "Post-render assertion over the environment (repeatable), e.g. \"env.TAG != ''\"")
	renderCmd.Flags().StringVar(&schemaPath, "schema", "", "JSON Schema to validate the rendered document against")
	renderCmd.Flags().StringVar(&requireVersion, "require-version", "", "Semver constraint the running renval must satisfy")
}

// runRenderAction implements the core logic for the render command
func runRenderAction(ctx context.Context, templatePath string) error {
	current := version.Get().Version
	if err := system.CheckVersionConstraint(requireVersion, current); err != nil {
		return err
	}

	sysConfig, err := system.NewConfigLoader().Load(configFilePath())
	if err != nil {
		slog.Debug("failed to load runtime config, using defaults", "error", err)
		sysConfig = system.DefaultConfig()
	}
	if err := sysConfig.CheckVersion(current); err != nil {
		return err
	}

	templateText, err := readTemplate(templatePath)
	if err != nil {
		return err
	}

	vars, err := readMappingInput(varsJSON, varsFile, "--vars")
	if err != nil {
		return err
	}
	secretRefs, err := readMappingInput(secretsJSON, secretsFile, "--secrets")
	if err != nil {
		return err
	}

	provider := sensitivedata.NewProvider()
	redactor, err := redaction.New(redaction.Config{
		Tracked:         provider,
		Patterns:        sysConfig.Redaction.Patterns,
		HashMode:        sysConfig.Redaction.HashMode.Enabled,
		Salt:            sysConfig.Redaction.HashMode.Salt,
		DisableGitleaks: sysConfig.Redaction.DisableGitleaks,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize redactor: %w", err)
	}

	store := secrets.NewResolver(&sysConfig.Secrets, provider)
	useCase := services.NewRenderValuesUseCase(store, redactor, prompt.NewTerminalPrompter(), slog.Default())

	document, report, renderErr := useCase.Execute(ctx, services.RenderRequest{
		Template:           templateText,
		TemplatePath:       templatePath,
		VarsJSON:           vars,
		SecretsJSON:        secretRefs,
		StrictSecrets:      strictSecrets,
		StrictPlaceholders: strictPlaceholders,
		Interactive:        interactive,
		Requirements:       requirements,
		SchemaPath:         schemaPath,
		Version:            current,
	})

	// The report is written even when rendering failed: the masked
	// transcript is the main diagnostic for a broken mapping.
	if reportErr := writeReport(report, redactor); reportErr != nil {
		slog.Error("failed to write report", "error", reportErr)
	}

	if renderErr != nil {
		return renderErr
	}

	if err := writeDocument(document); err != nil {
		return err
	}

	if len(report.Warnings) > 0 || len(report.Unresolved) > 0 {
		slog.Warn("render completed with diagnostics",
			"warnings", len(report.Warnings),
			"unresolved", len(report.Unresolved))
	}

	return nil
}

// readTemplate reads the template file, or stdin when path is "-".
func readTemplate(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read template from stdin: %w", err)
		}
		return string(data), nil
	}

	//nolint:gosec // G304: user-controlled template path is the point of the command
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}
	return string(data), nil
}

// readMappingInput returns the mapping JSON from the inline flag or the file
// flag. Setting both is ambiguous and rejected.
func readMappingInput(inline, file, flagName string) (string, error) {
	if inline != "" && file != "" {
		return "", fmt.Errorf("%s and %s-file are mutually exclusive", flagName, flagName)
	}
	if file == "" {
		return inline, nil
	}

	//nolint:gosec // G304: user-controlled mapping file path is intentional
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s-file: %w", flagName, err)
	}
	return string(data), nil
}

// writeReport formats the render report to the report destination, wrapped
// in a redacting writer as a last line of defense.
func writeReport(report *execution.RenderReport, redactor *redaction.Redactor) error {
	var dest io.Writer = os.Stderr
	colorable := true
	if reportFile != "" {
		//nolint:gosec // G304: user-controlled report file path is intentional
		file, err := os.Create(reportFile)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer func() { _ = file.Close() }()
		dest = file
		colorable = false
	}

	writer := sensitivedata.NewWriter(dest, redactor)

	formatter, err := output.NewFormatterFactory().Create(format, writer, output.FormatterOptions{
		Indent:       "  ",
		TemplatePath: report.TemplatePath,
	})
	if err != nil {
		return err
	}
	if transcript, ok := formatter.(*output.TranscriptFormatter); ok {
		transcript.EnableColor = colorable
	}

	return formatter.Format(report)
}

// writeDocument writes the rendered document to --output or stdout.
func writeDocument(document string) error {
	if outFile == "" {
		_, err := os.Stdout.WriteString(document)
		return err
	}

	//nolint:gosec // G304: user-controlled output file path is intentional
	file, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if _, err := file.WriteString(document); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	slog.Info("wrote rendered document", "file", outFile, "bytes", len(document))
	return nil
}
