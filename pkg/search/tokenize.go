// Package search implements the unpruned-tree query engine (§4.8): query
// tokenization, role-synonym resolution, and weighted node scoring.
// Grounded on the teacher's normalizeKeyName-style case/alias folding in
// pkg/input, generalized here from a fixed alias table to full Unicode
// tokenization and a weighted multi-signal score.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// noiseWords are dropped from the name query once the role span is removed
// (§4.8 "Query parsing").
var noiseWords = map[string]bool{
	"the": true, "a": true, "an": true, "this": true, "that": true,
	"for": true, "in": true, "on": true, "of": true, "with": true,
	"to": true, "and": true, "or": true, "is": true, "it": true,
	"its": true, "my": true, "your": true,
}

// Tokenize lowercases s, applies Unicode NFD decomposition with
// combining-mark stripping, and splits on any non-alphanumeric rune.
func Tokenize(s string) []string {
	s = strings.ToLower(s)
	decomposed := norm.NFD.String(s)

	var b strings.Builder
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue // combining mark, stripped by the decomposition step
		}
		b.WriteRune(r)
	}
	folded := b.String()

	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// dropNoise removes every noise word from tokens, preserving order.
func dropNoise(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !noiseWords[t] {
			out = append(out, t)
		}
	}
	return out
}
