package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/darshan-ceo/beacon-search/internal/models"
	"github.com/darshan-ceo/beacon-search/internal/repository"
	"github.com/darshan-ceo/beacon-search/internal/search"
	"github.com/darshan-ceo/beacon-search/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SearchHandler struct {
	searchService *search.Service
	repoManager   *repository.RepositoryManager
	logger        *logrus.Logger
}

func NewSearchHandler(
	searchService *search.Service,
	repoManager *repository.RepositoryManager,
	logger *logrus.Logger,
) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		repoManager:   repoManager,
		logger:        logger,
	}
}

// HandleSearch processes search requests
func (h *SearchHandler) HandleSearch(c *gin.Context) {
	startTime := time.Now()

	query := strings.TrimSpace(c.Query("q"))
	if len(query) > 2000 {
		utils.ErrorResponse(c, http.StatusBadRequest, "Query too long (max 2000 characters)", nil)
		return
	}

	scope := c.DefaultQuery("scope", "all")
	cursor := c.Query("cursor")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(search.DefaultSearchLimit)))
	if limit > 100 {
		limit = 100
	}

	userSession := h.getUserSession(c)

	h.logger.WithFields(logrus.Fields{
		"query":        query,
		"scope":        scope,
		"user_session": userSession,
		"ip_address":   c.ClientIP(),
	}).Info("Processing search request")

	response, err := h.searchService.Search(c.Request.Context(), query, scope, limit, cursor)
	if err != nil {
		if errors.Is(err, search.ErrSuperseded) {
			// A newer query replaced this one; nothing for the caller to show.
			utils.ErrorResponse(c, http.StatusConflict, "Search superseded by a newer query", nil)
			return
		}
		h.logger.WithError(err).Error("Search failed")
		utils.ErrorResponse(c, http.StatusBadRequest, "Search failed", err)
		return
	}

	responseTime := time.Since(startTime)

	if query != "" {
		go h.trackSearchQuery(userSession, query, scope, response.Total, responseTime, c.GetHeader("User-Agent"), c.ClientIP())
		go h.updatePopularQueries(query, response.Total, responseTime)
	}

	utils.SuccessResponse(c, http.StatusOK, "Search completed", response)
}

// HandleSuggest returns type-ahead suggestions
func (h *SearchHandler) HandleSuggest(c *gin.Context) {
	query := c.Query("q")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(search.DefaultSuggestLimit)))
	if limit > 20 {
		limit = 20
	}

	suggestions := h.searchService.Suggest(c.Request.Context(), query, limit)
	utils.SuccessResponse(c, http.StatusOK, "Suggestions retrieved", suggestions)
}

// HandleProvider reports which backend is answering searches this session
func (h *SearchHandler) HandleProvider(c *gin.Context) {
	provider := h.searchService.GetProvider()
	status := string(provider)
	if provider == search.ProviderUnknown {
		status = "undetermined"
	}

	utils.SuccessResponse(c, http.StatusOK, "Provider retrieved", gin.H{"provider": status})
}

// HandleRebuildIndex triggers an index rebuild (no-op in demo mode)
func (h *SearchHandler) HandleRebuildIndex(c *gin.Context) {
	var req struct {
		Scope string `json:"scope"`
	}
	// Body is optional; scope defaults to documents.
	_ = c.ShouldBindJSON(&req)

	if err := h.searchService.RebuildIndex(c.Request.Context(), req.Scope); err != nil {
		h.logger.WithError(err).Error("Index rebuild failed")
		utils.ErrorResponse(c, http.StatusBadGateway, "Index rebuild failed", err)
		return
	}

	utils.SuccessResponse(c, http.StatusAccepted, "Index rebuild triggered", nil)
}

// HandleReindexDocument reindexes one document, fire-and-forget
func (h *SearchHandler) HandleReindexDocument(c *gin.Context) {
	docID := c.Param("id")
	if docID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Document ID is required", nil)
		return
	}

	h.searchService.ReindexDocument(c.Request.Context(), docID)
	utils.SuccessResponse(c, http.StatusAccepted, "Document reindex triggered", nil)
}

// HandleRemoveFromIndex removes one document from the demo index
func (h *SearchHandler) HandleRemoveFromIndex(c *gin.Context) {
	docID := c.Param("id")
	if docID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Document ID is required", nil)
		return
	}

	h.searchService.RemoveFromIndex(c.Request.Context(), docID)
	utils.SuccessResponse(c, http.StatusOK, "Document removed from index", nil)
}

// HandleIndexStats reports the searchable document count
func (h *SearchHandler) HandleIndexStats(c *gin.Context) {
	stats := h.searchService.GetIndexStats(c.Request.Context())
	utils.SuccessResponse(c, http.StatusOK, "Index stats retrieved", stats)
}

// HandleQueryHistory returns the in-memory diagnostic history
func (h *SearchHandler) HandleQueryHistory(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Query history retrieved", h.searchService.GetQueryHistory())
}

// HandleRecentSearches returns the persisted recent-search list
func (h *SearchHandler) HandleRecentSearches(c *gin.Context) {
	recent := h.searchService.GetRecentSearches(c.Request.Context())
	utils.SuccessResponse(c, http.StatusOK, "Recent searches retrieved", recent)
}

// HandleClearCache drops cache, recent searches, and history
func (h *SearchHandler) HandleClearCache(c *gin.Context) {
	if err := h.searchService.ClearCache(c.Request.Context()); err != nil {
		h.logger.WithError(err).Error("Failed to clear search cache")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to clear cache", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Search cache cleared", nil)
}

// HandleRefresh clears the cache and forces a provider re-probe
func (h *SearchHandler) HandleRefresh(c *gin.Context) {
	if err := h.searchService.RefreshSearchData(c.Request.Context()); err != nil {
		h.logger.WithError(err).Error("Failed to refresh search data")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to refresh search data", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Search data refreshed", nil)
}

// Helper methods

func (h *SearchHandler) getUserSession(c *gin.Context) string {
	// Try to get session from header first
	if session := c.GetHeader("X-Session-ID"); session != "" {
		return session
	}

	// Generate session based on IP + User-Agent (basic fingerprinting)
	return utils.GenerateSessionID(c.ClientIP() + c.GetHeader("User-Agent"))
}

func (h *SearchHandler) trackSearchQuery(userSession, query, scope string, resultsCount int, responseTime time.Duration, userAgent, ipAddress string) {
	if h.repoManager == nil {
		return
	}

	searchQuery := &models.SearchQuery{
		QueryText:       query,
		Scope:           scope,
		Provider:        string(h.searchService.GetProvider()),
		UserSession:     userSession,
		ResultsCount:    resultsCount,
		SearchTimestamp: time.Now(),
		ResponseTimeMs:  int(responseTime.Milliseconds()),
		UserAgent:       userAgent,
		IPAddress:       ipAddress,
	}

	if err := h.repoManager.SearchQuery.Create(searchQuery); err != nil {
		h.logger.WithError(err).Error("Failed to track search query")
	}
}

func (h *SearchHandler) updatePopularQueries(query string, resultsCount int, responseTime time.Duration) {
	if h.repoManager == nil {
		return
	}

	if err := h.repoManager.PopularQuery.IncrementCount(query); err != nil {
		h.logger.WithError(err).Error("Failed to update popular queries")
		return
	}

	if err := h.repoManager.PopularQuery.UpdateStats(query, float64(resultsCount), int(responseTime.Milliseconds())); err != nil {
		h.logger.WithError(err).Error("Failed to update query stats")
	}
}
