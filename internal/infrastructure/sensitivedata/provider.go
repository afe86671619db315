// Package sensitivedata provides tools for managing and protecting sensitive
// information such as resolved secret values.
package sensitivedata

import "sync"

// minTrackedLength guards against redacting trivially short strings: tracking
// a one-character value would mangle every output that happens to contain it.
const minTrackedLength = 4

// Provider implements ports.SensitiveValueProvider.
// It maintains a thread-safe registry of sensitive values.
type Provider struct {
	values []string
	seen   map[string]struct{}
	mu     sync.RWMutex
}

// NewProvider creates a new sensitive data provider.
func NewProvider() *Provider {
	return &Provider{
		values: make([]string, 0, 32),
		seen:   make(map[string]struct{}, 32),
	}
}

// Track registers a sensitive value to be protected.
// Empty and very short values are ignored; duplicates are tracked once.
func (p *Provider) Track(value string) {
	if len(value) < minTrackedLength {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, dup := p.seen[value]; dup {
		return
	}
	p.seen[value] = struct{}{}
	p.values = append(p.values, value)
}

// AllValues returns all tracked sensitive values.
func (p *Provider) AllValues() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	// Return a copy to avoid race conditions if caller modifies the slice
	result := make([]string, len(p.values))
	copy(result, p.values)
	return result
}
