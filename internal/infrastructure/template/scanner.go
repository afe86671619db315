// Package template renders ${NAME} and ${NAME:-default} placeholders in a
// values document. The scanner is hand-written so substitution behavior stays
// deterministic and independent of host shell quirks.
package template

import (
	"strings"
	"unicode/utf8"

	"github.com/renval-dev/renval/internal/domain/entities"
)

// Result holds the rendered document and the tokens that stayed unresolved.
type Result struct {
	Document   string
	Unresolved []entities.UnresolvedPlaceholder
}

// Render substitutes placeholders in the template using env.
// Substitution is non-strict: a placeholder with no mapping entry and no
// default clause is left verbatim and reported, so a downstream tool choking
// on a literal ${VAR} points straight at the incomplete mapping.
// Values are inserted raw; callers own target-syntax safety.
func Render(tmpl string, env map[string]string) Result {
	var out strings.Builder
	out.Grow(len(tmpl))

	var unresolved []entities.UnresolvedPlaceholder

	line, col := 1, 1
	rest := tmpl
	for {
		start := strings.Index(rest, "${")
		if start == -1 {
			out.WriteString(rest)
			return Result{Document: out.String(), Unresolved: unresolved}
		}

		prefix := rest[:start]
		out.WriteString(prefix)
		line, col = advance(prefix, line, col)

		token, length, ok := scanToken(rest[start:])
		if !ok {
			// Not a well-formed placeholder: emit "${" literally and move on.
			out.WriteString("${")
			line, col = advance("${", line, col)
			rest = rest[start+2:]
			continue
		}

		raw := rest[start : start+length]
		if value, present := env[token.name]; present {
			out.WriteString(value)
		} else if token.hasDefault {
			out.WriteString(token.defaultValue)
		} else {
			out.WriteString(raw)
			unresolved = append(unresolved, entities.UnresolvedPlaceholder{
				Name:   token.name,
				Line:   line,
				Column: col,
			})
		}

		line, col = advance(raw, line, col)
		rest = rest[start+length:]
	}
}

type token struct {
	name         string
	hasDefault   bool
	defaultValue string
}

// scanToken parses a placeholder at the start of s, which begins with "${".
// It returns the parsed token and the total token length including braces.
// Malformed placeholders (no closing brace, empty or invalid name) report
// ok=false and are treated as literal text by the caller.
func scanToken(s string) (token, int, bool) {
	end := strings.IndexByte(s, '}')
	if end == -1 {
		return token{}, 0, false
	}

	body := s[2:end]
	name, rest := body, ""
	if i := strings.Index(body, ":-"); i != -1 {
		name, rest = body[:i], body[i+2:]
		if !validName(name) {
			return token{}, 0, false
		}
		return token{name: name, hasDefault: true, defaultValue: rest}, end + 1, true
	}

	if !validName(name) {
		return token{}, 0, false
	}
	return token{name: name}, end + 1, true
}

// validName reports whether s matches [A-Za-z_][A-Za-z0-9_]*.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// advance walks consumed text and returns the updated 1-based line and
// column. Columns count runes, not bytes, so positions stay correct in
// templates containing multibyte text.
func advance(consumed string, line, col int) (int, int) {
	for {
		i := strings.IndexByte(consumed, '\n')
		if i == -1 {
			return line, col + utf8.RuneCountInString(consumed)
		}
		line++
		col = 1
		consumed = consumed[i+1:]
	}
}
