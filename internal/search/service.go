package search

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/darshan-ceo/beacon-search/internal/models"
	"github.com/darshan-ceo/beacon-search/internal/remote"
	"github.com/darshan-ceo/beacon-search/internal/store"
	"github.com/sirupsen/logrus"
)

const (
	DefaultSearchLimit  = 20
	DefaultSuggestLimit = 8

	maxRecentSearches = 10
	maxQueryHistory   = 10
)

// ErrSuperseded signals that a search was cancelled because a newer one
// started. It wraps context.Canceled so errors.Is treats it as a
// cancellation, not a failure; callers should ignore it rather than report it.
var ErrSuperseded = fmt.Errorf("search superseded by newer query: %w", context.Canceled)

type recentSearch struct {
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
}

// Options tunes a Service. Zero values fall back to production defaults.
type Options struct {
	SessionID       string
	CacheTTL        time.Duration
	ProbeTimeout    time.Duration
	SimulateLatency bool
	Now             func() time.Time
}

// Service is the search core: provider selection, demo-mode scanning over
// the two backing stores, API delegation, response caching, and the
// session-scoped recent/history bookkeeping. One instance is constructed at
// startup and shared; its mutable state is mutex-guarded.
type Service struct {
	richStore store.RecordStore
	flatStore store.RecordStore
	sessions  store.SessionStore
	remote    *remote.Client
	popular   models.PopularQueryRepository
	logger    *logrus.Logger

	cache           *responseCache
	sessionID       string
	probeTimeout    time.Duration
	simulateLatency bool
	now             func() time.Time

	mu             sync.Mutex
	probeMu        sync.Mutex
	provider       Provider
	subscribers    map[int]func(Provider)
	nextSubscriber int
	cancelPrev     context.CancelFunc
	recent         []recentSearch
	recentLoaded   bool
	history        []models.QueryRecord
}

// NewService wires a search service. remoteClient may be nil when no search
// API is configured; popular may be nil when analytics are disabled.
func NewService(
	richStore store.RecordStore,
	flatStore store.RecordStore,
	sessions store.SessionStore,
	remoteClient *remote.Client,
	popular models.PopularQueryRepository,
	logger *logrus.Logger,
	opts Options,
) *Service {
	if opts.SessionID == "" {
		opts.SessionID = "local"
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 1500 * time.Millisecond
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		richStore:       richStore,
		flatStore:       flatStore,
		sessions:        sessions,
		remote:          remoteClient,
		popular:         popular,
		logger:          logger,
		cache:           newResponseCache(opts.CacheTTL, opts.Now),
		sessionID:       opts.SessionID,
		probeTimeout:    opts.ProbeTimeout,
		simulateLatency: opts.SimulateLatency,
		now:             opts.Now,
		subscribers:     make(map[int]func(Provider)),
	}
}

// Search runs one query against the selected provider and returns a
// paginated response. An empty or all-whitespace query short-circuits to an
// empty response with no store access and no cache entry. Starting a new
// search cancels the previous in-flight one, which then fails with
// ErrSuperseded.
func (s *Service) Search(ctx context.Context, query, scope string, limit int, cursor string) (*models.SearchResponse, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return &models.SearchResponse{Results: []models.SearchResult{}, Total: 0}, nil
	}

	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	kinds, err := kindsForScope(scope)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancelPrev != nil {
		s.cancelPrev()
	}
	s.cancelPrev = cancel
	s.mu.Unlock()

	key := cacheKey{query: trimmed, scope: scopeOrAll(scope), limit: limit, cursor: cursor}
	if cached, ok := s.cache.get(key); ok {
		s.logger.WithField("query", trimmed).Debug("Search served from cache")
		s.rememberSearch(ctx, trimmed)
		return cached, nil
	}

	provider := s.ensureProvider(ctx)
	start := s.now()

	var response *models.SearchResponse
	if provider == ProviderAPI {
		response = s.searchAPI(ctx, trimmed, scopeOrAll(scope), limit, cursor)
	} else {
		response = s.searchDemo(ctx, trimmed, kinds, limit, cursor)
	}

	// A superseded call must neither populate the cache nor resolve
	// normally, or a slow stale response could clobber a fresher one.
	if ctx.Err() != nil {
		return nil, ErrSuperseded
	}

	s.cache.put(key, response)
	s.rememberSearch(ctx, trimmed)
	s.recordQuery(trimmed, provider, scopeOrAll(scope), s.now().Sub(start), response.Total)

	return response, nil
}

func (s *Service) searchAPI(ctx context.Context, query, scope string, limit int, cursor string) *models.SearchResponse {
	resp, err := s.remote.SearchWithRetry(ctx, query, scope, limit, cursor)
	if err != nil {
		if ctx.Err() != nil {
			// Supersession; the caller turns this into ErrSuperseded.
			return &models.SearchResponse{Results: []models.SearchResult{}}
		}
		s.logger.WithError(err).WithField("query", query).Error("Search API request failed")
		return &models.SearchResponse{
			Results: []models.SearchResult{},
			Total:   0,
			Message: "Search is temporarily unavailable. Please try again.",
		}
	}

	results := make([]models.SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, models.SearchResult{
			Type:       r.Type,
			ID:         r.ID,
			Title:      r.Title,
			Subtitle:   r.Subtitle,
			URL:        r.URL,
			Score:      r.Score,
			Highlights: r.Highlights,
			Badges:     r.Badges,
		})
	}

	return &models.SearchResponse{
		Results:    results,
		Total:      resp.Total,
		NextCursor: resp.NextCursor,
		Message:    resp.Message,
	}
}

func (s *Service) searchDemo(ctx context.Context, query string, kinds []models.EntityKind, limit int, cursor string) *models.SearchResponse {
	if s.simulateLatency {
		sleepFor(ctx, time.Duration(200+rand.Intn(300))*time.Millisecond)
	}

	parsed := ParseQuery(query)
	join := s.buildJoinIndex(ctx, kinds)

	var all []models.SearchResult
	for _, kind := range kinds {
		if ctx.Err() != nil {
			return &models.SearchResponse{Results: []models.SearchResult{}}
		}
		for _, rec := range s.mergedRecords(ctx, kind) {
			if result, ok := buildResult(kind, rec, join, parsed); ok {
				all = append(all, result)
			}
		}
	}

	// Stable sort: equal scores keep the per-kind append order above.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Score > all[j].Score
	})

	return paginate(all, limit, cursor)
}

// paginate slices [offset, offset+limit) out of the full result list. An
// out-of-range offset yields an empty page, not an error.
func paginate(all []models.SearchResult, limit int, cursor string) *models.SearchResponse {
	offset := 0
	if cursor != "" {
		if parsed, err := strconv.Atoi(cursor); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	response := &models.SearchResponse{
		Results: append([]models.SearchResult{}, all[offset:end]...),
		Total:   total,
	}
	if end < total {
		response.NextCursor = strconv.Itoa(end)
	}
	return response
}

// buildJoinIndex loads the lookup tables result enrichment needs: client
// names whenever cases, tasks, or hearings are in scope, and parent cases
// for tasks and hearings. Documents join to nothing extra.
func (s *Service) buildJoinIndex(ctx context.Context, kinds []models.EntityKind) *joinIndex {
	join := newJoinIndex()

	needClients := false
	needCases := false
	for _, kind := range kinds {
		switch kind {
		case models.KindCase:
			needClients = true
		case models.KindTask, models.KindHearing:
			needClients = true
			needCases = true
		}
	}

	if needClients {
		for _, rec := range s.mergedRecords(ctx, models.KindClient) {
			join.addClient(rec)
		}
	}
	if needCases {
		for _, rec := range s.mergedRecords(ctx, models.KindCase) {
			join.addCase(rec)
		}
	}

	return join
}

// mergedRecords fans out to both backing stores for one kind and merges
// them, preferring the rich store's copy on ID collisions. A failing store
// contributes nothing instead of failing the query.
func (s *Service) mergedRecords(ctx context.Context, kind models.EntityKind) []models.Record {
	var rich, flat []models.Record

	if s.richStore != nil {
		var err error
		rich, err = s.richStore.GetAll(ctx, kind)
		if err != nil {
			s.logger.WithError(err).WithField("kind", kind).Warn("Rich store unavailable for search")
			rich = nil
		}
	}

	if s.flatStore != nil {
		var err error
		flat, err = s.flatStore.GetAll(ctx, kind)
		if err != nil {
			s.logger.WithError(err).WithField("kind", kind).Warn("Flat store unavailable for search")
			flat = nil
		}
	}

	return store.Merge(rich, flat)
}

func scopeOrAll(scope string) string {
	if scope == "" {
		return "all"
	}
	return scope
}

func kindsForScope(scope string) ([]models.EntityKind, error) {
	switch scope {
	case "", "all":
		return models.AllKinds, nil
	case "cases":
		return []models.EntityKind{models.KindCase}, nil
	case "clients":
		return []models.EntityKind{models.KindClient}, nil
	case "tasks":
		return []models.EntityKind{models.KindTask}, nil
	case "documents":
		return []models.EntityKind{models.KindDocument}, nil
	case "hearings":
		return []models.EntityKind{models.KindHearing}, nil
	default:
		return nil, fmt.Errorf("unknown search scope %q", scope)
	}
}

// --- index maintenance ---

// RebuildIndex forwards to the search API, or, in demo mode, just clears the
// response cache: the demo path re-scans the live stores on every query, so
// there is no persistent index to rebuild.
func (s *Service) RebuildIndex(ctx context.Context, scope string) error {
	if scope == "" {
		scope = "documents"
	}

	if s.ensureProvider(ctx) == ProviderAPI {
		return s.remote.RebuildIndex(ctx, scope)
	}

	s.logger.WithField("scope", scope).Info("Demo mode: rebuild is a no-op, clearing response cache")
	s.cache.clear()
	return nil
}

// ReindexDocument is fire-and-forget: failures are logged, never returned.
func (s *Service) ReindexDocument(ctx context.Context, docID string) {
	if s.ensureProvider(ctx) == ProviderAPI {
		if err := s.remote.ReindexDocument(ctx, docID); err != nil {
			s.logger.WithError(err).WithField("doc_id", docID).Error("Failed to reindex document")
		}
		return
	}

	s.logger.WithField("doc_id", docID).Debug("Demo mode: reindex is a no-op, clearing response cache")
	s.cache.clear()
}

// RemoveFromIndex only has demo-mode semantics; the API manages its own
// index lifecycle on deletion.
func (s *Service) RemoveFromIndex(ctx context.Context, docID string) {
	if s.ensureProvider(ctx) == ProviderAPI {
		return
	}

	s.logger.WithField("doc_id", docID).Debug("Demo mode: removing document, clearing response cache")
	s.cache.clear()
}

// GetIndexStats counts the searchable documents across both stores.
func (s *Service) GetIndexStats(ctx context.Context) models.IndexStats {
	return models.IndexStats{
		DocumentsCount: len(s.mergedRecords(ctx, models.KindDocument)),
		UpdatedAt:      s.now(),
	}
}

// --- recent searches and history ---

func (s *Service) recentKey() string {
	return "search:recent:" + s.sessionID
}

func (s *Service) loadRecentLocked(ctx context.Context) {
	if s.recentLoaded {
		return
	}
	s.recentLoaded = true

	raw, err := s.sessions.Get(ctx, s.recentKey())
	if err != nil {
		return
	}
	if err := json.Unmarshal([]byte(raw), &s.recent); err != nil {
		s.logger.WithError(err).Warn("Discarding unreadable recent-search list")
		s.recent = nil
	}
}

func (s *Service) rememberSearch(ctx context.Context, query string) {
	s.mu.Lock()
	s.loadRecentLocked(ctx)

	filtered := make([]recentSearch, 0, len(s.recent)+1)
	filtered = append(filtered, recentSearch{Query: query, Timestamp: s.now()})
	for _, entry := range s.recent {
		if entry.Query != query {
			filtered = append(filtered, entry)
		}
	}
	if len(filtered) > maxRecentSearches {
		filtered = filtered[:maxRecentSearches]
	}
	s.recent = filtered

	data, err := json.Marshal(s.recent)
	s.mu.Unlock()

	if err != nil {
		return
	}
	if err := s.sessions.Set(ctx, s.recentKey(), string(data)); err != nil {
		s.logger.WithError(err).Warn("Failed to persist recent searches")
	}
}

// GetRecentSearches returns the deduplicated, most-recent-first query list.
func (s *Service) GetRecentSearches(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadRecentLocked(ctx)

	out := make([]string, 0, len(s.recent))
	for _, entry := range s.recent {
		out = append(out, entry.Query)
	}
	return out
}

func (s *Service) recordQuery(query string, provider Provider, scope string, duration time.Duration, resultCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append([]models.QueryRecord{{
		Query:       query,
		Provider:    string(provider),
		Scope:       scope,
		DurationMs:  int(duration.Milliseconds()),
		ResultCount: resultCount,
		Timestamp:   s.now(),
	}}, s.history...)

	if len(s.history) > maxQueryHistory {
		s.history = s.history[:maxQueryHistory]
	}
}

// GetQueryHistory returns the diagnostic record of recent executions.
func (s *Service) GetQueryHistory() []models.QueryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.QueryRecord, len(s.history))
	copy(out, s.history)
	return out
}

// ClearCache drops the response cache, the recent-search list, and the query
// history.
func (s *Service) ClearCache(ctx context.Context) error {
	s.cache.clear()

	s.mu.Lock()
	s.recent = nil
	s.recentLoaded = true
	s.history = nil
	s.mu.Unlock()

	if err := s.sessions.Delete(ctx, s.recentKey()); err != nil {
		return fmt.Errorf("failed to clear persisted recent searches: %w", err)
	}
	return nil
}
