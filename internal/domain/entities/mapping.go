// Package entities defines the core domain types for value rendering:
// name mappings, resolution warnings, and their error kinds.
package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Mapping is a set of unique name -> value pairs supplied by the caller as a
// JSON object. For variable mappings the value is the literal variable value;
// for secret mappings the value is a secret reference (a lookup key into the
// secret store), never the secret itself.
type Mapping map[string]string

// ParseMapping parses a JSON object of string-to-string pairs into a Mapping.
// An empty input or "{}" yields an empty mapping. Anything that is not a flat
// object of string values (arrays, nested objects, numbers, trailing garbage)
// is rejected with a MalformedMappingError.
func ParseMapping(jsonText string) (Mapping, error) {
	if jsonText == "" {
		return Mapping{}, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonText), &raw); err != nil {
		return nil, newMalformedMappingError(err)
	}
	// A top-level JSON null decodes into a nil map without error; it is not
	// an object and must not pass as an empty mapping.
	if raw == nil {
		return nil, &MalformedMappingError{
			Reason: "expected a JSON object of string pairs, got null",
		}
	}

	mapping := make(Mapping, len(raw))
	for name, value := range raw {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, &MalformedMappingError{
				Reason: fmt.Sprintf("value for %q is not a string", name),
			}
		}
		mapping[name] = s
	}

	return mapping, nil
}

// Names returns the mapping's names in sorted order.
func (m Mapping) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Overlap returns the names present in both mappings, sorted. A non-empty
// overlap means the secret-derived value will shadow the plain variable.
func (m Mapping) Overlap(other Mapping) []string {
	var shared []string
	for name := range m {
		if _, ok := other[name]; ok {
			shared = append(shared, name)
		}
	}
	sort.Strings(shared)
	return shared
}

// newMalformedMappingError extracts the byte offset from the decoder error
// when one is available.
func newMalformedMappingError(err error) *MalformedMappingError {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &MalformedMappingError{
			Reason: syntaxErr.Error(),
			Offset: syntaxErr.Offset,
		}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &MalformedMappingError{
			Reason: fmt.Sprintf("expected a JSON object of string pairs, got %s", typeErr.Value),
			Offset: typeErr.Offset,
		}
	}

	return &MalformedMappingError{Reason: err.Error()}
}
