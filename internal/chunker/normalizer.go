// Package chunker prepares raw course and upload text for embedding: it
// normalizes the text, splits it into sentence-like units and packs those
// into fixed-size chunks with a trailing overlap carried across boundaries.
package chunker

import (
	"regexp"
	"strings"
)

var (
	// Characters outside this set are replaced with a space. Word characters
	// and common punctuation survive normalization.
	unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_\s.,!?;:()\-'"]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Normalize collapses whitespace runs to single spaces, strips unsupported
// characters and trims the result. Empty or all-whitespace input yields an
// empty string, which callers must treat as "nothing to index".
func Normalize(raw string) string {
	text := unsafeChars.ReplaceAllString(raw, " ")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
