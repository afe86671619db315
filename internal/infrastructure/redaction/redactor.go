// Package redaction produces the masked audit transcript and scrubs secret
// material from every output path.
package redaction

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/renval-dev/renval/internal/application/ports"
)

// Marker replaces every masked value in transcripts and scrubbed output.
const Marker = "[REDACTED]"

// Redactor sanitizes sensitive data in three passes: exact matches against
// tracked secret values, gitleaks detection, then custom regex patterns.
// All fields are read-only after construction, safe for concurrent use.
type Redactor struct {
	tracked  ports.SensitiveValueProvider
	patterns []*regexp.Regexp
	hashMode bool
	salt     string

	// Gitleaks detector catches secret-shaped strings that were never
	// resolved through the store (e.g. pasted into a variable mapping).
	// If nil, only tracked values and regex patterns apply.
	gitleaksDetector *detect.Detector
}

// Config holds the configuration for the Redactor.
type Config struct {
	// Tracked supplies the resolved secret values to mask. May be nil.
	Tracked ports.SensitiveValueProvider
	// Patterns are custom regexes to redact (e.g. "INT-[A-Z0-9]{16}").
	Patterns []string
	// HashMode replaces values with a salted hash instead of Marker, so two
	// occurrences of the same secret remain correlatable in an audit trail.
	HashMode bool
	// Salt for hashing. If empty, the hash is deterministic but unsalted.
	Salt string
	// DisableGitleaks turns off the detector pass.
	DisableGitleaks bool
}

// New creates a new Redactor with the given configuration.
func New(cfg Config) (*Redactor, error) {
	r := &Redactor{
		tracked:  cfg.Tracked,
		hashMode: cfg.HashMode,
		salt:     cfg.Salt,
		patterns: make([]*regexp.Regexp, 0, len(cfg.Patterns)),
	}

	if !cfg.DisableGitleaks {
		detector, err := newGitleaksDetector()
		if err == nil {
			r.gitleaksDetector = detector
		}
		// On error fall back silently to tracked values + patterns.
	}

	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile redaction pattern %s: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}

	return r, nil
}

// newGitleaksDetector creates a detector with the gitleaks default ruleset.
func newGitleaksDetector() (*detect.Detector, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(config.DefaultConfig)); err != nil {
		return nil, fmt.Errorf("failed to read gitleaks config: %w", err)
	}

	var vc config.ViperConfig
	if err := v.Unmarshal(&vc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gitleaks config: %w", err)
	}

	cfg, err := vc.Translate()
	if err != nil {
		return nil, fmt.Errorf("failed to translate gitleaks config: %w", err)
	}

	return detect.NewDetector(cfg), nil
}

// ScrubString replaces sensitive material in a string.
func (r *Redactor) ScrubString(input string) string {
	if input == "" {
		return ""
	}

	result := input

	// Phase 1: exact replacement of every tracked secret value.
	if r.tracked != nil {
		for _, value := range r.tracked.AllValues() {
			result = strings.ReplaceAll(result, value, r.replacement(value))
		}
	}

	// Phase 2: gitleaks detection for secret-shaped strings.
	if r.gitleaksDetector != nil {
		fragment := detect.Fragment{Raw: result}
		for _, finding := range r.gitleaksDetector.Detect(fragment) {
			result = strings.ReplaceAll(result, finding.Secret, r.replacement(finding.Secret))
		}
	}

	// Phase 3: custom regex patterns.
	for _, re := range r.patterns {
		result = re.ReplaceAllStringFunc(result, r.replacement)
	}

	return result
}

// MaskedEnvironment produces the audit transcript of an environment: key
// names in sorted order, every value replaced by the redaction marker. The
// dump never contains a resolved value regardless of tracking state.
func (r *Redactor) MaskedEnvironment(env map[string]string) string {
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString("=")
		if r.hashMode {
			b.WriteString(r.hash(env[name]))
		} else {
			b.WriteString(Marker)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Redactor) replacement(secret string) string {
	if r.hashMode {
		return r.hash(secret)
	}
	return Marker
}

// hash returns a truncated HMAC-SHA256 of the secret, prefixed so a reader
// can tell a hashed value from a literal one.
func (r *Redactor) hash(secret string) string {
	mac := hmac.New(sha256.New, []byte(r.salt))
	mac.Write([]byte(secret))
	sum := hex.EncodeToString(mac.Sum(nil))
	return "[MASKED:" + sum[:12] + "]"
}
