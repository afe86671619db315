package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/renval-dev/renval/internal/domain/entities"
	"github.com/renval-dev/renval/internal/infrastructure/redaction"
	"github.com/renval-dev/renval/internal/infrastructure/resolve"
	"github.com/renval-dev/renval/internal/infrastructure/secrets"
	"github.com/renval-dev/renval/internal/infrastructure/sensitivedata"
	"github.com/renval-dev/renval/internal/infrastructure/system"
)

var (
	envVarsJSON    string
	envSecretsJSON string
)

// envCmd prints the masked environment a render run would use, without
// rendering anything. Useful for auditing a mapping before a deploy.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the masked environment for the given mappings",
	Long: `Resolve the variable and secret mappings exactly like render would, then
print the masked environment: every name, no values. Missing secrets are
reported as warnings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runEnvAction(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(envCmd)

	envCmd.Flags().StringVar(&envVarsJSON, "vars", "", "Variable mapping as a JSON object (name -> value)")
	envCmd.Flags().StringVar(&envSecretsJSON, "secrets", "", "Secret mapping as a JSON object (name -> secret reference)")
}

func runEnvAction(ctx context.Context) error {
	sysConfig, err := system.NewConfigLoader().Load(configFilePath())
	if err != nil {
		slog.Debug("failed to load runtime config, using defaults", "error", err)
		sysConfig = system.DefaultConfig()
	}

	vars, err := entities.ParseMapping(envVarsJSON)
	if err != nil {
		return err
	}
	secretRefs, err := entities.ParseMapping(envSecretsJSON)
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

	env, warnings, err := resolve.Resolve(ctx, vars, secretRefs, store)
	if err != nil {
		return err
	}

	fmt.Print(redactor.MaskedEnvironment(env))

	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	return nil
}
