package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMapping_Valid(t *testing.T) {
	mapping, err := ParseMapping(`{"IMAGE_TAG": "v1.2.3", "REPLICAS": "3"}`)
	require.NoError(t, err)

	assert.Len(t, mapping, 2)
	assert.Equal(t, "v1.2.3", mapping["IMAGE_TAG"])
	assert.Equal(t, "3", mapping["REPLICAS"])
}

func TestParseMapping_Empty(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "empty object", input: "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapping, err := ParseMapping(tt.input)
			require.NoError(t, err)
			assert.Empty(t, mapping)
		})
	}
}

func TestParseMapping_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "trailing comma", input: `{"A": "1",}`},
		{name: "not json", input: `not json at all`},
		{name: "array", input: `["A", "B"]`},
		{name: "string", input: `"A"`},
		{name: "top-level null", input: `null`},
		{name: "top-level null with whitespace", input: ` null `},
		{name: "number value", input: `{"A": 1}`},
		{name: "nested object value", input: `{"A": {"B": "c"}}`},
		{name: "null value", input: `{"A": null}`},
		{name: "bool value", input: `{"A": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMapping(tt.input)
			require.Error(t, err)

			var malformed *MalformedMappingError
			require.ErrorAs(t, err, &malformed)
		})
	}
}

func TestParseMapping_SyntaxErrorCarriesOffset(t *testing.T) {
	_, err := ParseMapping(`{"A": "1",}`)
	require.Error(t, err)

	var malformed *MalformedMappingError
	require.ErrorAs(t, err, &malformed)
	assert.Positive(t, malformed.Offset)
	assert.Contains(t, malformed.Error(), "offset")
}

func TestMapping_Names(t *testing.T) {
	mapping := Mapping{"C": "3", "A": "1", "B": "2"}
	assert.Equal(t, []string{"A", "B", "C"}, mapping.Names())
}

func TestMapping_Overlap(t *testing.T) {
	vars := Mapping{"A": "1", "B": "2", "X": "plain"}
	secrets := Mapping{"X": "SECRET_X", "Z": "SECRET_Z"}

	assert.Equal(t, []string{"X"}, vars.Overlap(secrets))
	assert.Empty(t, Mapping{"A": "1"}.Overlap(Mapping{"B": "2"}))
}
