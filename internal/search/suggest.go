package search

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/darshan-ceo/beacon-search/internal/models"
)

// suggestKinds is the fixed type-ahead priority order; suggestions are
// first-found, not score-ordered.
var suggestKinds = []models.EntityKind{models.KindDocument, models.KindCase, models.KindClient}

// Suggest returns up to limit short type-ahead entries. Suggestions are a
// non-critical enhancement: every failure path degrades to an empty list and
// nothing here touches the main search cache.
func (s *Service) Suggest(ctx context.Context, query string, limit int) []models.SearchSuggestion {
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return s.popularSuggestions(limit)
	}

	if s.ensureProvider(ctx) == ProviderAPI {
		remoteSuggestions, err := s.remote.Suggest(ctx, trimmed, limit)
		if err != nil {
			s.logger.WithError(err).Debug("Suggest API request failed")
			return []models.SearchSuggestion{}
		}

		out := make([]models.SearchSuggestion, 0, len(remoteSuggestions))
		for _, sg := range remoteSuggestions {
			out = append(out, models.SearchSuggestion{Text: sg.Text, Type: sg.Type, Count: sg.Count})
		}
		return out
	}

	if s.simulateLatency {
		sleepFor(ctx, time.Duration(80+rand.Intn(40))*time.Millisecond)
	}

	parsed := ParseQuery(trimmed)
	suggestions := make([]models.SearchSuggestion, 0, limit)

	for _, kind := range suggestKinds {
		if len(suggestions) >= limit || ctx.Err() != nil {
			break
		}
		for _, rec := range s.mergedRecords(ctx, kind) {
			if len(suggestions) >= limit {
				break
			}
			candidate := titleContentCandidate(kind, rec)
			if candidate.Title == "" || !Matches(candidate, parsed) {
				continue
			}
			suggestions = append(suggestions, models.SearchSuggestion{
				Text:  candidate.Title,
				Type:  string(kind),
				Count: 1,
			})
		}
	}

	return suggestions
}

// popularSuggestions backs the empty-input dropdown with the most searched
// queries, when analytics are wired.
func (s *Service) popularSuggestions(limit int) []models.SearchSuggestion {
	if s.popular == nil {
		return []models.SearchSuggestion{}
	}

	top, err := s.popular.GetTop(limit)
	if err != nil {
		s.logger.WithError(err).Debug("Failed to load popular queries for suggestions")
		return []models.SearchSuggestion{}
	}

	out := make([]models.SearchSuggestion, 0, len(top))
	for _, pq := range top {
		out = append(out, models.SearchSuggestion{
			Text:  pq.QueryText,
			Type:  "query",
			Count: pq.SearchCount,
		})
	}
	return out
}
