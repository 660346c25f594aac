package search

import "strings"

// Candidate is the matcher-ready projection of one entity record. The
// per-kind adapters own all schema knowledge; by the time a record gets here
// every field is a plain normalizable string.
type Candidate struct {
	Title    string
	Content  string
	Tags     []string
	Uploader string
	CaseID   string
}

// Matches decides whether a candidate satisfies a parsed query.
//
// Structured filters are conjunctive and independent of free text: any
// present filter that fails rejects the candidate outright. Terms are also
// conjunctive, but each term may match either the title or the content. A
// query with no terms and no failing filters matches by default.
func Matches(c Candidate, q ParsedQuery) bool {
	title := Normalize(c.Title)
	content := Normalize(c.Content)

	if q.Filename != "" && !strings.Contains(title, Normalize(q.Filename)) {
		return false
	}
	if q.Tag != "" && !anyTagContains(c.Tags, q.Tag) {
		return false
	}
	if q.Uploader != "" && !strings.Contains(Normalize(c.Uploader), Normalize(q.Uploader)) {
		return false
	}
	if q.CaseRef != "" && !strings.Contains(Normalize(c.CaseID), Normalize(q.CaseRef)) {
		return false
	}

	if len(q.Terms) == 0 {
		return true
	}

	if q.Exact {
		phrase := q.Phrase()
		return strings.Contains(title, phrase) || strings.Contains(content, phrase)
	}

	for _, term := range q.Terms {
		if !strings.Contains(title, term) && !strings.Contains(content, term) {
			return false
		}
	}
	return true
}

func anyTagContains(tags []string, want string) bool {
	needle := Normalize(want)
	for _, tag := range tags {
		if strings.Contains(Normalize(tag), needle) {
			return true
		}
	}
	return false
}
