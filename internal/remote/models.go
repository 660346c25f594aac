package remote

// Wire types for the hosted search API. Field names follow the API contract,
// not the internal DTOs; the search service converts.

type SearchResponse struct {
	Results    []SearchResult `json:"results"`
	Total      int            `json:"total"`
	NextCursor string         `json:"next_cursor,omitempty"`
	Message    string         `json:"message,omitempty"`
}

type SearchResult struct {
	Type       string   `json:"type"`
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle,omitempty"`
	URL        string   `json:"url"`
	Score      int      `json:"score"`
	Highlights []string `json:"highlights,omitempty"`
	Badges     []string `json:"badges,omitempty"`
}

type SuggestResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

type Suggestion struct {
	Text  string `json:"text"`
	Type  string `json:"type,omitempty"`
	Count int    `json:"count,omitempty"`
}

type RebuildRequest struct {
	Scope string `json:"scope"`
}
