// Package secrets deals with resolving secret references from external
// sources like environment variables and files.
package secrets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/renval-dev/renval/internal/application/ports"
	"github.com/renval-dev/renval/internal/infrastructure/system"
)

// Resolver implements ports.SecretResolver.
// It resolves secret references from configured sources and automatically
// tracks resolved values for redaction.
type Resolver struct {
	config   *system.SecretsConfig
	provider ports.SensitiveValueProvider // For auto-tracking
	cache    map[string]string
	mu       sync.RWMutex
}

// NewResolver creates a new secret resolver.
func NewResolver(
	config *system.SecretsConfig,
	provider ports.SensitiveValueProvider,
) *Resolver {
	return &Resolver{
		config:   config,
		provider: provider,
		cache:    make(map[string]string),
	}
}

// Resolve returns the secret value for the given reference.
// It checks sources in order: Local -> Env -> Files.
// The resolved value is automatically tracked for redaction.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.RLock()
	if value, ok := r.cache[ref]; ok {
		r.mu.RUnlock()
		return value, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after write lock
	if value, ok := r.cache[ref]; ok {
		return value, nil
	}

	value, err := r.resolveFromSources(ref)
	if err != nil {
		return "", err
	}

	r.cache[ref] = value
	r.provider.Track(value) // Auto-track for redaction
	return value, nil
}

func (r *Resolver) resolveFromSources(ref string) (string, error) {
	if r.config == nil {
		return "", fmt.Errorf("secret %q: secrets config not present: %w", ref, ports.ErrSecretNotFound)
	}

	// 1. Check local secrets (dev only)
	if value, ok := r.config.Local[ref]; ok {
		return value, nil
	}

	// 2. Check env var mapping
	if envVar, ok := r.config.Env[ref]; ok {
		value := os.Getenv(envVar)
		if value == "" {
			return "", fmt.Errorf("secret %q: env var %q is not set: %w", ref, envVar, ports.ErrSecretNotFound)
		}
		return value, nil
	}

	// 3. Check file mapping (admin-controlled paths only)
	if filePath, ok := r.config.Files[ref]; ok {
		return readSecretFile(ref, filePath)
	}

	return "", fmt.Errorf("secret %q not found in local, env, or files: %w", ref, ports.ErrSecretNotFound)
}

// readSecretFile reads a file-backed secret.
// Security: os.OpenRoot prevents path traversal out of the configured directory.
func readSecretFile(ref, filePath string) (string, error) {
	dir := filepath.Dir(filePath)
	base := filepath.Base(filePath)

	root, err := os.OpenRoot(dir)
	if err != nil {
		return "", fmt.Errorf("secret %q: failed to open directory %q: %w", ref, dir, err)
	}
	defer func() { _ = root.Close() }()

	f, err := root.Open(base)
	if err != nil {
		return "", fmt.Errorf("secret %q: failed to open file %q: %w", ref, base, ports.ErrSecretNotFound)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("secret %q: reading file %q: %w", ref, filePath, err)
	}
	return strings.TrimSpace(string(data)), nil
}
