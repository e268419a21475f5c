package airtable

import "strings"

// Formula is a filterByFormula expression.
type Formula string

// Field references a column by name.
func Field(name string) string {
	return "{" + strings.ReplaceAll(name, "}", `\}`) + "}"
}

// Quote renders s as a single-quoted string literal.
func Quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// Eq matches records whose field equals value.
func Eq(field, value string) Formula {
	return Formula(Field(field) + " = " + Quote(value))
}

func And(parts ...Formula) Formula {
	return join("AND", parts)
}

func Or(parts ...Formula) Formula {
	return join("OR", parts)
}

func join(fn string, parts []Formula) Formula {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, string(p))
		}
	}
	switch len(nonEmpty) {
	case 0:
		return ""
	case 1:
		return Formula(nonEmpty[0])
	}
	return Formula(fn + "(" + strings.Join(nonEmpty, ", ") + ")")
}
