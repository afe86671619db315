// Package resolve merges variable and secret mappings into the environment
// used for template rendering.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/renval-dev/renval/internal/application/ports"
	"github.com/renval-dev/renval/internal/domain/entities"
)

// Environment maps variable names to their resolved string values.
type Environment map[string]string

// Names returns the environment's variable names in sorted order.
func (e Environment) Names() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// maxConcurrentLookups bounds parallel secret store calls.
const maxConcurrentLookups = 8

// Resolve builds the environment from the two mappings. Plain variables are
// copied as-is; secret entries are looked up through the store. Secrets are
// applied after variables, so on a name collision the secret-derived value
// wins. A secret the store does not have degrades to an empty string plus a
// MissingSecretWarning instead of failing the whole run.
//
// Lookups run concurrently; keys are independent, so the resulting
// environment does not depend on lookup order.
func Resolve(
	ctx context.Context,
	vars entities.Mapping,
	secrets entities.Mapping,
	store ports.SecretResolver,
) (Environment, []entities.MissingSecretWarning, error) {
	env := make(Environment, len(vars)+len(secrets))

	for _, name := range vars.Names() {
		env[name] = vars[name]
		slog.Info("setting variable", "name", name)
	}

	type resolved struct {
		name  string
		ref   string
		value string
		found bool
	}

	var mu sync.Mutex
	results := make([]resolved, 0, len(secrets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	for _, name := range secrets.Names() {
		ref := secrets[name]
		g.Go(func() error {
			value, err := store.Resolve(gctx, ref)
			if err != nil {
				if errors.Is(err, ports.ErrSecretNotFound) {
					mu.Lock()
					results = append(results, resolved{name: name, ref: ref})
					mu.Unlock()
					return nil
				}
				return fmt.Errorf("resolving secret %q for variable %q: %w", ref, name, err)
			}

			mu.Lock()
			results = append(results, resolved{name: name, ref: ref, value: value, found: value != ""})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Deterministic warning order regardless of lookup completion order.
	sort.Slice(results, func(i, j int) bool { return results[i].name < results[j].name })

	var warnings []entities.MissingSecretWarning
	for _, r := range results {
		if _, shadowed := vars[r.name]; shadowed {
			slog.Debug("secret overrides variable of the same name", "name", r.name)
		}

		if !r.found {
			// Empty or absent secret: bind "" and keep going. A visibly unset
			// value in the rendered document is easier to diagnose than a
			// hard abort at this stage.
			env[r.name] = ""
			warnings = append(warnings, entities.MissingSecretWarning{Name: r.name, SecretRef: r.ref})
			slog.Warn("secret not found for variable", "name", r.name, "secret", r.ref)
			continue
		}

		env[r.name] = r.value
		slog.Info("setting secret variable", "name", r.name, "secret", r.ref)
	}

	return env, warnings, nil
}
