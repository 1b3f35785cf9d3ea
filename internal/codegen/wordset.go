package codegen

import (
	"sort"
	"strings"
)

// WordSet is an immutable set of banned substrings. The zero value is empty.
type WordSet struct {
	words []string
}

// ParseWordSet splits a comma-delimited parameter value into a WordSet.
// Surrounding whitespace is trimmed and empty tokens are dropped, so an
// empty value yields an empty set.
func ParseWordSet(raw string) WordSet {
	if strings.TrimSpace(raw) == "" {
		return WordSet{}
	}

	seen := make(map[string]struct{})
	words := make([]string, 0)
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		words = append(words, tok)
	}
	sort.Strings(words)
	return WordSet{words: words}
}

// NewWordSet builds a WordSet from explicit words.
func NewWordSet(words ...string) WordSet {
	return ParseWordSet(strings.Join(words, ","))
}

// Len returns the number of banned substrings.
func (s WordSet) Len() int {
	return len(s.words)
}

// Words returns a copy of the banned substrings in sorted order.
func (s WordSet) Words() []string {
	out := make([]string, len(s.words))
	copy(out, s.words)
	return out
}

// String renders the set in its comma-delimited parameter form.
func (s WordSet) String() string {
	return strings.Join(s.words, ",")
}

// IsOffensive reports whether any banned word occurs in code as a
// contiguous, case-sensitive substring.
func (s WordSet) IsOffensive(code string) bool {
	for _, w := range s.words {
		if strings.Contains(code, w) {
			return true
		}
	}
	return false
}
