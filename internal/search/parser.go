package search

import (
	"regexp"
	"strings"
)

// ParsedQuery is the structured form of one raw query string.
type ParsedQuery struct {
	Terms    []string
	Exact    bool
	Filename string
	Tag      string
	Uploader string
	CaseRef  string
}

// HasFilters reports whether any key:value operator was present.
func (q ParsedQuery) HasFilters() bool {
	return q.Filename != "" || q.Tag != "" || q.Uploader != "" || q.CaseRef != ""
}

// Phrase joins the terms back into the single normalized string used for
// exact matching and title-equality scoring.
func (q ParsedQuery) Phrase() string {
	return strings.Join(q.Terms, " ")
}

var (
	quotedQueryRegex  = regexp.MustCompile(`^"(.+)"$`)
	bareFilenameRegex = regexp.MustCompile(`^\S+\.([A-Za-z0-9]+)$`)
	operatorRegex     = regexp.MustCompile(`(?i)\b(filename|tag|uploader|case):(\S+)`)
)

// documentExtensions are the upload types the DMS accepts; a bare
// "name.ext" query with one of these is treated as a literal filename.
var documentExtensions = map[string]bool{
	"pdf": true, "doc": true, "docx": true, "xls": true, "xlsx": true,
	"csv": true, "txt": true, "rtf": true, "jpg": true, "jpeg": true,
	"png": true, "gif": true, "zip": true, "json": true, "xml": true,
}

// ParseQuery turns a free-text query into a ParsedQuery.
//
// Precedence: a fully quoted query or a bare filename short-circuits to an
// exact match with a single normalized term, ignoring any operator-looking
// substrings inside it. Otherwise filename:/tag:/uploader:/case: operators
// are extracted, and whatever text remains is normalized and tokenized.
func ParseQuery(raw string) ParsedQuery {
	query := strings.TrimSpace(raw)

	if m := quotedQueryRegex.FindStringSubmatch(query); m != nil {
		return ParsedQuery{Exact: true, Terms: []string{Normalize(m[1])}}
	}

	if m := bareFilenameRegex.FindStringSubmatch(query); m != nil && documentExtensions[strings.ToLower(m[1])] {
		return ParsedQuery{Exact: true, Terms: []string{Normalize(query)}}
	}

	var parsed ParsedQuery
	remaining := operatorRegex.ReplaceAllStringFunc(query, func(token string) string {
		key, value, _ := strings.Cut(token, ":")
		switch strings.ToLower(key) {
		case "filename":
			parsed.Filename = value
		case "tag":
			parsed.Tag = value
		case "uploader":
			parsed.Uploader = value
		case "case":
			parsed.CaseRef = value
		}
		return " "
	})

	if normalized := Normalize(remaining); normalized != "" {
		parsed.Terms = strings.Fields(normalized)
	}

	return parsed
}
