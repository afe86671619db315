// Package assertions evaluates post-render requirement expressions against
// the resolved environment, letting a pipeline gate the deploy step on checks
// like `env.REPLICAS != ""` before the document leaves renval.
package assertions

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// Check evaluates each requirement expression and returns the first failure.
// The expression environment exposes:
//
//	env        map of variable name to resolved value
//	warnings   number of missing-secret warnings
//	unresolved number of placeholders left in the document
//
// Every expression must evaluate to a boolean.
func Check(requirements []string, env map[string]string, warnings, unresolved int) error {
	if len(requirements) == 0 {
		return nil
	}

	exprEnv := map[string]interface{}{
		"env":        env,
		"warnings":   warnings,
		"unresolved": unresolved,
	}

	options := []expr.Option{
		expr.Env(exprEnv),
		expr.AsBool(),
	}

	for _, requirement := range requirements {
		program, err := expr.Compile(requirement, options...)
		if err != nil {
			return fmt.Errorf("invalid requirement %q: %w", requirement, err)
		}

		result, err := expr.Run(program, exprEnv)
		if err != nil {
			return fmt.Errorf("evaluating requirement %q: %w", requirement, err)
		}

		passed, ok := result.(bool)
		if !ok {
			return fmt.Errorf("requirement %q did not evaluate to a boolean", requirement)
		}
		if !passed {
			return fmt.Errorf("requirement not met: %s", requirement)
		}
	}

	return nil
}
