package resolve

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renval-dev/renval/internal/application/ports"
	"github.com/renval-dev/renval/internal/domain/entities"
)

// fakeStore implements ports.SecretResolver from a fixed map.
type fakeStore struct {
	values map[string]string
	mu     sync.Mutex
	calls  []string
	err    error
}

func (s *fakeStore) Resolve(_ context.Context, ref string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, ref)
	s.mu.Unlock()

	if s.err != nil {
		return "", s.err
	}
	value, ok := s.values[ref]
	if !ok {
		return "", fmt.Errorf("secret %q not found: %w", ref, ports.ErrSecretNotFound)
	}
	return value, nil
}

func TestResolve_DisjointUnion(t *testing.T) {
	store := &fakeStore{values: map[string]string{
		"SECRET_TOKEN": "tok-123456",
		"SECRET_PASS":  "p4ssw0rd",
	}}

	env, warnings, err := Resolve(context.Background(),
		entities.Mapping{"IMAGE": "app", "TAG": "v1"},
		entities.Mapping{"TOKEN": "SECRET_TOKEN", "PASS": "SECRET_PASS"},
		store,
	)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, Environment{
		"IMAGE": "app",
		"TAG":   "v1",
		"TOKEN": "tok-123456",
		"PASS":  "p4ssw0rd",
	}, env)
	assert.Equal(t, []string{"IMAGE", "PASS", "TAG", "TOKEN"}, env.Names())
}

func TestResolve_SecretWinsOnCollision(t *testing.T) {
	store := &fakeStore{values: map[string]string{"SECRET_X": "b"}}

	env, warnings, err := Resolve(context.Background(),
		entities.Mapping{"X": "a"},
		entities.Mapping{"X": "SECRET_X"},
		store,
	)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "b", env["X"])
}

func TestResolve_MissingSecretDegrades(t *testing.T) {
	store := &fakeStore{values: map[string]string{}}

	env, warnings, err := Resolve(context.Background(),
		entities.Mapping{},
		entities.Mapping{"K": "NOPE"},
		store,
	)
	require.NoError(t, err)

	value, present := env["K"]
	assert.True(t, present)
	assert.Equal(t, "", value)

	require.Len(t, warnings, 1)
	assert.Equal(t, entities.MissingSecretWarning{Name: "K", SecretRef: "NOPE"}, warnings[0])
}

func TestResolve_EmptySecretValueCountsAsMissing(t *testing.T) {
	store := &fakeStore{values: map[string]string{"EMPTY": ""}}

	env, warnings, err := Resolve(context.Background(),
		entities.Mapping{},
		entities.Mapping{"K": "EMPTY"},
		store,
	)
	require.NoError(t, err)
	assert.Equal(t, "", env["K"])
	require.Len(t, warnings, 1)
	assert.Equal(t, "EMPTY", warnings[0].SecretRef)
}

func TestResolve_StoreErrorAborts(t *testing.T) {
	store := &fakeStore{err: errors.New("store unreachable")}

	_, _, err := Resolve(context.Background(),
		entities.Mapping{"A": "1"},
		entities.Mapping{"K": "REF"},
		store,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unreachable")
}

func TestResolve_WarningsAreSortedByName(t *testing.T) {
	store := &fakeStore{values: map[string]string{}}

	_, warnings, err := Resolve(context.Background(),
		entities.Mapping{},
		entities.Mapping{"Z": "SZ", "A": "SA", "M": "SM"},
		store,
	)
	require.NoError(t, err)
	require.Len(t, warnings, 3)
	assert.Equal(t, "A", warnings[0].Name)
	assert.Equal(t, "M", warnings[1].Name)
	assert.Equal(t, "Z", warnings[2].Name)
}

func TestResolve_EmptyMappings(t *testing.T) {
	store := &fakeStore{}

	env, warnings, err := Resolve(context.Background(), entities.Mapping{}, entities.Mapping{}, store)
	require.NoError(t, err)
	assert.Empty(t, env)
	assert.Empty(t, warnings)
	assert.Empty(t, store.calls)
}
