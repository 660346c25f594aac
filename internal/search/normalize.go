package search

import (
	"regexp"
	"strings"
)

var (
	separatorReplacer = strings.NewReplacer("_", " ", "-", " ")
	punctuationRegex  = regexp.MustCompile(`[^\w\s]`)
	whitespaceRegex   = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes a string for matching: lower-case, underscores and
// hyphens become spaces, punctuation is stripped, whitespace collapses to
// single spaces. Both indexed field values and query terms go through the
// same function so comparisons are always normalized-vs-normalized.
// Idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = separatorReplacer.Replace(s)
	s = punctuationRegex.ReplaceAllString(s, "")
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
