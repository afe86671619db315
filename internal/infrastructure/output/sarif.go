package output

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/renval-dev/renval/internal/domain/execution"
)

// Rule IDs for the two diagnostic kinds a render run can produce.
const (
	ruleMissingSecret         = "missing-secret"
	ruleUnresolvedPlaceholder = "unresolved-placeholder"
)

// SARIFFormatter formats render reports as SARIF 2.1.0 JSON so CI platforms
// can annotate the template with missing secrets and unresolved placeholders.
type SARIFFormatter struct {
	writer       io.Writer
	templatePath string
}

// NewSARIFFormatter creates a new SARIF formatter.
// templatePath locates diagnostics inside the template file.
func NewSARIFFormatter(writer io.Writer, templatePath string) *SARIFFormatter {
	return &SARIFFormatter{
		writer:       writer,
		templatePath: templatePath,
	}
}

// Format writes the render report as SARIF 2.1.0 JSON.
func (f *SARIFFormatter) Format(report *execution.RenderReport) error {
	sarifReport := sarif.NewReport()

	run := sarif.NewRunWithInformationURI("renval", "https://renval.dev")
	if report.RenvalVersion != "" {
		run.Tool.Driver.Version = &report.RenvalVersion
	}

	f.addRules(run)
	f.addResults(run, report)

	sarifReport.AddRun(run)

	if err := sarifReport.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}

	_, err := f.writer.Write([]byte("\n"))
	return err
}

func (f *SARIFFormatter) addRules(run *sarif.Run) {
	missingDesc := "A secret reference in the secret mapping was not found in the store; the variable was bound to an empty string."
	missing := sarif.NewReportingDescriptor().WithID(ruleMissingSecret)
	missing.WithName("MissingSecret")
	missing.WithShortDescription(&sarif.MultiformatMessageString{Text: ptrString("Secret not found for variable")})
	missing.WithFullDescription(&sarif.MultiformatMessageString{Text: &missingDesc})
	missing.WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: "warning"})
	run.Tool.Driver.AddRule(missing)

	unresolvedDesc := "A ${NAME} token had no mapping entry and no default clause; it was left verbatim in the rendered document and will likely be rejected downstream."
	unresolved := sarif.NewReportingDescriptor().WithID(ruleUnresolvedPlaceholder)
	unresolved.WithName("UnresolvedPlaceholder")
	unresolved.WithShortDescription(&sarif.MultiformatMessageString{Text: ptrString("Placeholder left unsubstituted")})
	unresolved.WithFullDescription(&sarif.MultiformatMessageString{Text: &unresolvedDesc})
	unresolved.WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: "note"})
	run.Tool.Driver.AddRule(unresolved)
}

func (f *SARIFFormatter) addResults(run *sarif.Run, report *execution.RenderReport) {
	for _, w := range report.Warnings {
		result := sarif.NewRuleResult(ruleMissingSecret)
		result.Level = "warning"
		result.Message = sarif.NewTextMessage(w.String())

		props := sarif.NewPropertyBag()
		props.Add("variable", w.Name)
		props.Add("secret_ref", w.SecretRef)
		result.WithProperties(props)

		run.AddResult(result)
	}

	for _, p := range report.Unresolved {
		result := sarif.NewRuleResult(ruleUnresolvedPlaceholder)
		result.Level = "note"
		result.Message = sarif.NewTextMessage(p.String())

		if f.templatePath != "" {
			pLoc := sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithURI(f.templatePath))
			region := sarif.NewRegion().WithStartLine(p.Line)
			region.WithStartColumn(p.Column)
			pLoc.WithRegion(region)

			loc := sarif.NewLocation().WithPhysicalLocation(pLoc)
			result.Locations = []*sarif.Location{loc}
		}

		run.AddResult(result)
	}
}

func ptrString(s string) *string {
	return &s
}
