package search

import (
	"fmt"
	"strings"

	"github.com/darshan-ceo/beacon-search/internal/models"
)

// The entity stores carry two schema generations (legacy flat fields and the
// newer relational names), and neither is guaranteed well-typed. All of that
// knowledge is isolated here: field readers take the newer key first and
// degrade to "" on anything missing or mistyped, and each kind has exactly
// one projection function. The matcher and scorer only ever see canonical
// Candidates.

// fieldString returns the first present string value among keys. Non-string
// values (objects, numbers, null) degrade to empty rather than erroring,
// except numbers which render in their obvious form.
func fieldString(rec models.Record, keys ...string) string {
	for _, key := range keys {
		switch v := rec[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strings.TrimSuffix(fmt.Sprintf("%v", v), ".0")
		}
	}
	return ""
}

// fieldStrings reads a list-valued field, accepting []string, []any of
// strings, or a comma-separated string (the legacy tag encoding).
func fieldStrings(rec models.Record, keys ...string) []string {
	for _, key := range keys {
		switch v := rec[key].(type) {
		case []string:
			if len(v) > 0 {
				return v
			}
		case []any:
			var out []string
			for _, item := range v {
				if s, ok := item.(string); ok && s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			if v != "" {
				var out []string
				for _, part := range strings.Split(v, ",") {
					if trimmed := strings.TrimSpace(part); trimmed != "" {
						out = append(out, trimmed)
					}
				}
				if len(out) > 0 {
					return out
				}
			}
		}
	}
	return nil
}

// joinIndex holds the lookup tables needed to enrich results: cases resolve
// their client name, tasks and hearings resolve their parent case and,
// through it, that case's client.
type joinIndex struct {
	clientNames map[string]string
	cases       map[string]caseJoin
}

type caseJoin struct {
	number   string
	title    string
	clientID string
}

func newJoinIndex() *joinIndex {
	return &joinIndex{
		clientNames: make(map[string]string),
		cases:       make(map[string]caseJoin),
	}
}

func (j *joinIndex) addClient(rec models.Record) {
	if id := rec.ID(); id != "" {
		j.clientNames[id] = fieldString(rec, "name", "clientName", "client_name")
	}
}

func (j *joinIndex) addCase(rec models.Record) {
	if id := rec.ID(); id != "" {
		j.cases[id] = caseJoin{
			number:   fieldString(rec, "caseNumber", "case_number", "reference"),
			title:    fieldString(rec, "title", "caseTitle", "case_title"),
			clientID: fieldString(rec, "clientId", "client_id"),
		}
	}
}

// caseContext resolves a record's parent case reference and client name.
func (j *joinIndex) caseContext(caseID string) (caseJoin, string) {
	parent := j.cases[caseID]
	return parent, j.clientNames[parent.clientID]
}

// buildResult projects a raw record of the given kind into a Candidate,
// runs the matcher, and assembles a SearchResult on acceptance.
func buildResult(kind models.EntityKind, rec models.Record, join *joinIndex, q ParsedQuery) (models.SearchResult, bool) {
	var (
		candidate Candidate
		subtitle  string
		badges    []string
	)

	id := rec.ID()

	switch kind {
	case models.KindDocument:
		candidate = Candidate{
			Title:    fieldString(rec, "title", "fileName", "file_name", "name"),
			Content:  fieldString(rec, "description", "content", "ocrText", "notes"),
			Tags:     fieldStrings(rec, "tags", "labels"),
			Uploader: fieldString(rec, "uploadedBy", "uploaded_by", "uploader"),
			CaseID:   caseRefString(fieldString(rec, "caseNumber", "case_number"), fieldString(rec, "caseId", "case_id")),
		}
		subtitle = joinParts(" · ", fieldString(rec, "caseNumber", "case_number"), candidate.Uploader)
		badges = append(badges, candidate.Tags...)
		if fileType := fieldString(rec, "fileType", "file_type", "mimeType"); fileType != "" {
			badges = append(badges, fileType)
		}

	case models.KindCase:
		number := fieldString(rec, "caseNumber", "case_number", "reference")
		clientName := join.clientNames[fieldString(rec, "clientId", "client_id")]
		candidate = Candidate{
			Title:   fieldString(rec, "title", "caseTitle", "case_title"),
			Content: joinParts(" ", number, fieldString(rec, "description", "summary"), fieldString(rec, "gstin")),
			CaseID:  caseRefString(number, id),
		}
		subtitle = joinParts(" · ", number, clientName)
		if stage := fieldString(rec, "stage", "status"); stage != "" {
			badges = append(badges, stage)
		}

	case models.KindClient:
		candidate = Candidate{
			Title: fieldString(rec, "name", "clientName", "client_name"),
			Content: joinParts(" ",
				fieldString(rec, "gstin"),
				fieldString(rec, "email", "contactEmail"),
				fieldString(rec, "phone", "contactPhone"),
				fieldString(rec, "address")),
		}
		subtitle = fieldString(rec, "gstin")
		if status := fieldString(rec, "status"); status != "" {
			badges = append(badges, status)
		}

	case models.KindTask:
		caseID := fieldString(rec, "caseId", "case_id")
		parent, clientName := join.caseContext(caseID)
		candidate = Candidate{
			Title:   fieldString(rec, "title", "taskTitle", "name"),
			Content: fieldString(rec, "description", "details"),
			CaseID:  caseRefString(parent.number, caseID),
		}
		subtitle = joinParts(" · ", parent.number, clientName, fieldString(rec, "assignee", "assignedTo", "assigned_to"))
		if status := fieldString(rec, "status"); status != "" {
			badges = append(badges, status)
		}
		if priority := fieldString(rec, "priority"); priority != "" {
			badges = append(badges, priority)
		}

	case models.KindHearing:
		caseID := fieldString(rec, "caseId", "case_id")
		parent, clientName := join.caseContext(caseID)
		title := fieldString(rec, "title", "hearingTitle", "purpose")
		if title == "" {
			title = joinParts(" ", "Hearing", fieldString(rec, "date", "hearingDate", "hearing_date"))
		}
		candidate = Candidate{
			Title:   title,
			Content: joinParts(" ", fieldString(rec, "notes", "description"), fieldString(rec, "court", "forum", "authority")),
			CaseID:  caseRefString(parent.number, caseID),
		}
		subtitle = joinParts(" · ", parent.number, clientName, fieldString(rec, "court", "forum", "authority"))
		if status := fieldString(rec, "status", "outcome"); status != "" {
			badges = append(badges, status)
		}

	default:
		return models.SearchResult{}, false
	}

	if !Matches(candidate, q) {
		return models.SearchResult{}, false
	}

	score := Score(candidate.Title, candidate.Content, q)
	if kind == models.KindDocument {
		score += FilenameBoost(candidate.Title, q)
	}

	return models.SearchResult{
		Type:       string(kind),
		ID:         id,
		Title:      candidate.Title,
		Subtitle:   subtitle,
		URL:        fmt.Sprintf("/%ss/%s", kind, id),
		Score:      score,
		Highlights: highlights(candidate, q),
		Badges:     badges,
	}, true
}

// caseRefString joins the human case number and the raw ID so a case: filter
// can match either identifier.
func caseRefString(number, id string) string {
	return strings.TrimSpace(number + " " + id)
}

func joinParts(sep string, parts ...string) string {
	var kept []string
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}

// titleContentCandidate is the simplified projection the suggest path scans:
// title and content only, no joins, no structured metadata.
func titleContentCandidate(kind models.EntityKind, rec models.Record) Candidate {
	switch kind {
	case models.KindDocument:
		return Candidate{
			Title:   fieldString(rec, "title", "fileName", "file_name", "name"),
			Content: fieldString(rec, "description", "content", "ocrText", "notes"),
		}
	case models.KindCase:
		return Candidate{
			Title:   fieldString(rec, "title", "caseTitle", "case_title"),
			Content: joinParts(" ", fieldString(rec, "caseNumber", "case_number", "reference"), fieldString(rec, "description", "summary")),
		}
	case models.KindClient:
		return Candidate{
			Title:   fieldString(rec, "name", "clientName", "client_name"),
			Content: fieldString(rec, "gstin"),
		}
	default:
		return Candidate{}
	}
}

// highlights lists the query terms that actually appear in the candidate.
func highlights(c Candidate, q ParsedQuery) []string {
	title := Normalize(c.Title)
	content := Normalize(c.Content)

	var out []string
	for _, term := range q.Terms {
		if strings.Contains(title, term) || strings.Contains(content, term) {
			out = append(out, term)
		}
	}
	return out
}
