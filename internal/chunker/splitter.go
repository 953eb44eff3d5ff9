package chunker

import (
	"regexp"
	"strings"
)

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// SplitSentences splits normalized text into sentence-like units on runs of
// terminal punctuation and drops empty fragments. The split is deliberately
// naive: no abbreviation, decimal or quote handling. Downstream chunk
// boundaries depend on this exact behavior.
func SplitSentences(text string) []string {
	parts := sentenceEnd.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}
