package models

import "time"

// SearchResult is one hit in a search response, shaped for direct rendering
// in the CRM's global search bar.
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

type SearchResponse struct {
	Results    []SearchResult `json:"results"`
	Total      int            `json:"total"`
	NextCursor string         `json:"next_cursor,omitempty"`
	Message    string         `json:"message,omitempty"`
}

// SearchSuggestion is a type-ahead entry.
type SearchSuggestion struct {
	Text  string `json:"text"`
	Type  string `json:"type,omitempty"`
	Count int    `json:"count,omitempty"`
}

// IndexStats reports the size of the searchable document set.
type IndexStats struct {
	DocumentsCount int       `json:"documents_count"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// QueryRecord is a diagnostic entry kept for the last few executed searches.
// It lives in memory only and is not persisted across restarts.
type QueryRecord struct {
	Query       string    `json:"query"`
	Provider    string    `json:"provider"`
	Scope       string    `json:"scope"`
	DurationMs  int       `json:"duration_ms"`
	ResultCount int       `json:"result_count"`
	Timestamp   time.Time `json:"timestamp"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}
