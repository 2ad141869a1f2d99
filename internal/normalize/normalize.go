// Package normalize provides Unicode-aware text comparison helpers.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lower returns s mapped to lower case using the root locale.
// Only per-rune lowercasing applies, so "ß" stays "ß" and does not expand to "ss".
func Lower(s string) string {
	// cases.Caser is stateful and not safe for concurrent use.
	return cases.Lower(language.Und).String(s)
}

// ContainsLower reports whether the lower-cased substr is within the
// lower-cased s. An empty substr matches everything.
func ContainsLower(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(Lower(s), Lower(substr))
}
