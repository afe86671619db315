package redaction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renval-dev/renval/internal/infrastructure/sensitivedata"
)

func newTestRedactor(t *testing.T, cfg Config) *Redactor {
	t.Helper()
	// Keep tests deterministic and fast
	cfg.DisableGitleaks = true
	r, err := New(cfg)
	require.NoError(t, err)
	return r
}

func TestMaskedEnvironment_NeverContainsValues(t *testing.T) {
	r := newTestRedactor(t, Config{})

	masked := r.MaskedEnvironment(map[string]string{
		"DB_PASSWORD": "s3cr3t",
		"IMAGE_TAG":   "v1.2.3",
	})

	assert.NotContains(t, masked, "s3cr3t")
	assert.NotContains(t, masked, "v1.2.3")
	assert.Contains(t, masked, "DB_PASSWORD="+Marker)
	assert.Contains(t, masked, "IMAGE_TAG="+Marker)
}

func TestMaskedEnvironment_SortedKeys(t *testing.T) {
	r := newTestRedactor(t, Config{})

	masked := r.MaskedEnvironment(map[string]string{"ZZZ": "1", "AAA": "2", "MMM": "3"})

	lines := strings.Split(strings.TrimSpace(masked), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "AAA="+Marker, lines[0])
	assert.Equal(t, "MMM="+Marker, lines[1])
	assert.Equal(t, "ZZZ="+Marker, lines[2])
}

func TestMaskedEnvironment_Empty(t *testing.T) {
	r := newTestRedactor(t, Config{})
	assert.Empty(t, r.MaskedEnvironment(map[string]string{}))
}

func TestScrubString_TrackedValues(t *testing.T) {
	provider := sensitivedata.NewProvider()
	provider.Track("hunter2-password")

	r := newTestRedactor(t, Config{Tracked: provider})

	scrubbed := r.ScrubString("the secret is hunter2-password, do not tell")
	assert.Equal(t, "the secret is "+Marker+", do not tell", scrubbed)
}

func TestScrubString_CustomPatterns(t *testing.T) {
	r := newTestRedactor(t, Config{Patterns: []string{`INT-[A-Z0-9]{8}`}})

	scrubbed := r.ScrubString("token INT-ABCD1234 issued")
	assert.Equal(t, "token "+Marker+" issued", scrubbed)
}

func TestScrubString_HashMode(t *testing.T) {
	provider := sensitivedata.NewProvider()
	provider.Track("correlatable-secret")

	r := newTestRedactor(t, Config{Tracked: provider, HashMode: true, Salt: "pepper"})

	first := r.ScrubString("a correlatable-secret b")
	second := r.ScrubString("c correlatable-secret d")

	assert.NotContains(t, first, "correlatable-secret")
	assert.Contains(t, first, "[MASKED:")
	// Same secret hashes to the same marker so occurrences stay correlatable.
	assert.Equal(t, strings.Fields(first)[1], strings.Fields(second)[1])
}

func TestScrubString_Empty(t *testing.T) {
	r := newTestRedactor(t, Config{})
	assert.Empty(t, r.ScrubString(""))
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New(Config{Patterns: []string{"("}, DisableGitleaks: true})
	require.Error(t, err)
}
