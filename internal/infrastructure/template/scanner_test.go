package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renval-dev/renval/internal/domain/entities"
)

func TestRender_Substitution(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		env  map[string]string
		want string
	}{
		{
			name: "simple substitution",
			tmpl: "image: ${TAG}",
			env:  map[string]string{"TAG": "v1"},
			want: "image: v1",
		},
		{
			name: "default used when absent",
			tmpl: "host: ${H:-localhost}",
			env:  map[string]string{},
			want: "host: localhost",
		},
		{
			name: "default ignored when present",
			tmpl: "host: ${H:-localhost}",
			env:  map[string]string{"H": "db.internal"},
			want: "host: db.internal",
		},
		{
			name: "empty value is present",
			tmpl: "key: '${K}'",
			env:  map[string]string{"K": ""},
			want: "key: ''",
		},
		{
			name: "empty default",
			tmpl: "key: '${K:-}'",
			env:  map[string]string{},
			want: "key: ''",
		},
		{
			name: "multiple placeholders",
			tmpl: "${A}-${B}-${A}",
			env:  map[string]string{"A": "x", "B": "y"},
			want: "x-y-x",
		},
		{
			name: "no placeholders",
			tmpl: "plain text\n",
			env:  map[string]string{"A": "x"},
			want: "plain text\n",
		},
		{
			name: "empty template",
			tmpl: "",
			env:  map[string]string{},
			want: "",
		},
		{
			name: "no escaping of inserted values",
			tmpl: "cmd: ${C}",
			env:  map[string]string{"C": "a: [b, c]"},
			want: "cmd: a: [b, c]",
		},
		{
			name: "default containing colon",
			tmpl: "url: ${U:-http://example.com:8080/x}",
			env:  map[string]string{},
			want: "url: http://example.com:8080/x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Render(tt.tmpl, tt.env)
			assert.Equal(t, tt.want, result.Document)
			assert.Empty(t, result.Unresolved)
		})
	}
}

func TestRender_PassThrough(t *testing.T) {
	result := Render("port: ${P}", map[string]string{})

	assert.Equal(t, "port: ${P}", result.Document)
	require.Len(t, result.Unresolved, 1)
	assert.Equal(t, entities.UnresolvedPlaceholder{Name: "P", Line: 1, Column: 7}, result.Unresolved[0])
}

func TestRender_UnresolvedPositions(t *testing.T) {
	tmpl := "a: ${A}\nb: value\nc: ${C}\n"
	result := Render(tmpl, map[string]string{"A": "1"})

	assert.Equal(t, "a: 1\nb: value\nc: ${C}\n", result.Document)
	require.Len(t, result.Unresolved, 1)
	assert.Equal(t, "C", result.Unresolved[0].Name)
	assert.Equal(t, 3, result.Unresolved[0].Line)
	assert.Equal(t, 4, result.Unresolved[0].Column)
}

func TestRender_ColumnsCountRunes(t *testing.T) {
	// "región: " is 8 runes but 9 bytes; the token starts at column 9.
	tmpl := "región: ${R}\n"
	result := Render(tmpl, map[string]string{})

	require.Len(t, result.Unresolved, 1)
	assert.Equal(t, entities.UnresolvedPlaceholder{Name: "R", Line: 1, Column: 9}, result.Unresolved[0])
}

func TestRender_MalformedTokensAreLiteral(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{name: "unclosed", tmpl: "x: ${UNCLOSED", want: "x: ${UNCLOSED"},
		{name: "empty name", tmpl: "x: ${}", want: "x: ${}"},
		{name: "leading digit", tmpl: "x: ${1BAD}", want: "x: ${1BAD}"},
		{name: "bad character", tmpl: "x: ${A-B}", want: "x: ${A-B}"},
		{name: "lone dollar", tmpl: "cost: $5", want: "cost: $5"},
		{name: "dollar brace at end", tmpl: "x: ${", want: "x: ${"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Render(tt.tmpl, map[string]string{"A": "x", "B": "y"})
			assert.Equal(t, tt.want, result.Document)
			assert.Empty(t, result.Unresolved)
		})
	}
}

func TestRender_LiteralPrefixThenValidToken(t *testing.T) {
	result := Render("${} ${A}", map[string]string{"A": "ok"})
	assert.Equal(t, "${} ok", result.Document)
	assert.Empty(t, result.Unresolved)
}

func TestRender_IdempotentWhenFullyResolved(t *testing.T) {
	env := map[string]string{"TAG": "v1", "H": "db"}
	first := Render("image: ${TAG}\nhost: ${H:-localhost}\n", env)
	second := Render(first.Document, env)

	assert.Equal(t, first.Document, second.Document)
	assert.Empty(t, second.Unresolved)
}
