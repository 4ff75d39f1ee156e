// Package fields maps arbitrary source column names onto the values the
// import needs. All "which column means X" knowledge lives in patterns.go.
package fields

import (
	"regexp"
	"strings"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/tabular"
)

// Patterns is an ordered list of acceptable header spellings for one concept.
type Patterns []*regexp.Regexp

func compile(exprs ...string) Patterns {
	out := make(Patterns, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile("(?i)" + expr)
	}
	return out
}

func (p Patterns) matches(header string) bool {
	for _, re := range p {
		if re.MatchString(header) {
			return true
		}
	}
	return false
}

// Extract returns the trimmed value of the first header, in row order, that
// matches any pattern and carries a non-empty value.
func Extract(row tabular.Row, patterns Patterns) (string, bool) {
	for _, f := range row.Fields {
		if !patterns.matches(strings.ToLower(f.Header)) {
			continue
		}
		value := strings.TrimSpace(f.Value)
		if value != "" {
			return value, true
		}
	}
	return "", false
}

// Value is Extract without the presence flag.
func Value(row tabular.Row, patterns Patterns) string {
	v, _ := Extract(row, patterns)
	return v
}
