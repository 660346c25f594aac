package search

import (
	"path/filepath"
	"strings"
)

// Score ranks a matched candidate. The point values are load-bearing: the
// UI's result ordering depends on them, so they must not be retuned without
// product sign-off.
func Score(rawTitle, rawContent string, q ParsedQuery) int {
	title := Normalize(rawTitle)
	content := Normalize(rawContent)

	score := 0

	if len(q.Terms) > 0 {
		phrase := q.Phrase()
		if title == phrase {
			score += 100
		}
		if allTermsIn(title, q.Terms) {
			score += 50
		}
		if allTermsIn(content, q.Terms) {
			score += 25
		}

		words := strings.Fields(title)
		for _, term := range q.Terms {
			for _, word := range words {
				if word == term {
					score += 15
					break
				}
			}
		}
	}

	if len(rawTitle) < 50 {
		score += 10
	}

	if q.Filename != "" {
		score += 15
	}
	if q.Tag != "" {
		score += 10
	}
	if q.Uploader != "" {
		score += 10
	}
	if q.CaseRef != "" {
		score += 10
	}
	if q.Exact {
		score += 20
	}

	if score < 1 {
		score = 1
	}
	return score
}

// FilenameBoost layers document-specific relevance on top of the base score:
// filename recall should dominate generic text relevance for documents.
// Exact filename match (with or without extension) gets +100, partial
// overlap +50.
func FilenameBoost(rawTitle string, q ParsedQuery) int {
	if len(q.Terms) == 0 {
		return 0
	}

	query := q.Phrase()
	title := Normalize(rawTitle)
	stem := Normalize(strings.TrimSuffix(rawTitle, filepath.Ext(rawTitle)))

	if title == query || stem == query {
		return 100
	}
	if strings.Contains(title, query) || strings.Contains(query, title) {
		return 50
	}

	for _, word := range strings.Fields(stem) {
		for _, term := range q.Terms {
			if strings.Contains(word, term) || strings.Contains(term, word) {
				return 50
			}
		}
	}
	return 0
}

func allTermsIn(haystack string, terms []string) bool {
	if haystack == "" {
		return false
	}
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}
