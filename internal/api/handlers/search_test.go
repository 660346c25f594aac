package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/darshan-ceo/beacon-search/internal/models"
	"github.com/darshan-ceo/beacon-search/internal/search"
	"github.com/darshan-ceo/beacon-search/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *search.Service) {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	rich := store.NewMemoryStore()
	rich.Put(models.KindDocument,
		models.Record{"id": "doc-1", "title": "SCN_Reply_Draft.docx", "description": "draft reply to show cause notice"},
		models.Record{"id": "doc-2", "title": "Detention_Order_MOV09.pdf", "description": "penalty computation"},
	)
	rich.Put(models.KindCase, models.Record{"id": "cs-1", "title": "ITC mismatch demand", "caseNumber": "GST/2025/0100"})

	svc := search.NewService(rich, nil, store.NewMemorySessionStore(), nil, nil, logger, search.Options{SessionID: "test-session"})
	handler := NewSearchHandler(svc, nil, logger)

	router := gin.New()
	api := router.Group("/api")
	{
		api.GET("/search", handler.HandleSearch)
		api.GET("/search/suggest", handler.HandleSuggest)
		api.GET("/search/provider", handler.HandleProvider)
		api.GET("/search/stats", handler.HandleIndexStats)
		api.GET("/search/recent", handler.HandleRecentSearches)
		api.POST("/search/index/rebuild", handler.HandleRebuildIndex)
		api.DELETE("/search/cache", handler.HandleClearCache)
	}

	return router, svc
}

func doRequest(router *gin.Engine, method, target string) (*httptest.ResponseRecorder, apiEnvelope) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)

	var envelope apiEnvelope
	_ = json.Unmarshal(w.Body.Bytes(), &envelope)
	return w, envelope
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func TestHandleSearch(t *testing.T) {
	router, _ := newTestRouter(t)

	w, envelope := doRequest(router, "GET", "/api/search?q=scn+reply&scope=documents")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, envelope.Success)

	var response models.SearchResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &response))
	require.Len(t, response.Results, 1)
	assert.Equal(t, "SCN_Reply_Draft.docx", response.Results[0].Title)
	assert.Equal(t, "document", response.Results[0].Type)
}

func TestHandleSearch_EmptyQuery(t *testing.T) {
	router, _ := newTestRouter(t)

	w, envelope := doRequest(router, "GET", "/api/search?q=")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, envelope.Success)

	var response models.SearchResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &response))
	assert.Empty(t, response.Results)
	assert.Equal(t, 0, response.Total)
}

func TestHandleSearch_QueryTooLong(t *testing.T) {
	router, _ := newTestRouter(t)

	w, envelope := doRequest(router, "GET", "/api/search?q="+strings.Repeat("x", 2001))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, envelope.Success)
}

func TestHandleSearch_UnknownScope(t *testing.T) {
	router, _ := newTestRouter(t)

	w, envelope := doRequest(router, "GET", "/api/search?q=itc&scope=bogus")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, envelope.Success)
}

func TestHandleSuggest(t *testing.T) {
	router, _ := newTestRouter(t)

	w, envelope := doRequest(router, "GET", "/api/search/suggest?q=detention")
	require.Equal(t, http.StatusOK, w.Code)

	var suggestions []models.SearchSuggestion
	require.NoError(t, json.Unmarshal(envelope.Data, &suggestions))
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Detention_Order_MOV09.pdf", suggestions[0].Text)
}

func TestHandleProvider_UndeterminedBeforeFirstSearch(t *testing.T) {
	router, _ := newTestRouter(t)

	w, envelope := doRequest(router, "GET", "/api/search/provider")
	require.Equal(t, http.StatusOK, w.Code)

	var data map[string]string
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, "undetermined", data["provider"])
}

func TestHandleProvider_AfterSearch(t *testing.T) {
	router, _ := newTestRouter(t)

	doRequest(router, "GET", "/api/search?q=itc")

	_, envelope := doRequest(router, "GET", "/api/search/provider")
	var data map[string]string
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, "demo", data["provider"])
}

func TestHandleIndexStats(t *testing.T) {
	router, _ := newTestRouter(t)

	w, envelope := doRequest(router, "GET", "/api/search/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.IndexStats
	require.NoError(t, json.Unmarshal(envelope.Data, &stats))
	assert.Equal(t, 2, stats.DocumentsCount)
}

func TestHandleRecentSearchesAndClearCache(t *testing.T) {
	router, _ := newTestRouter(t)

	doRequest(router, "GET", "/api/search?q=scn+reply")
	doRequest(router, "GET", "/api/search?q=detention")

	_, envelope := doRequest(router, "GET", "/api/search/recent")
	var recent []string
	require.NoError(t, json.Unmarshal(envelope.Data, &recent))
	assert.Equal(t, []string{"detention", "scn reply"}, recent)

	w, _ := doRequest(router, "DELETE", "/api/search/cache")
	require.Equal(t, http.StatusOK, w.Code)

	_, envelope = doRequest(router, "GET", "/api/search/recent")
	recent = nil
	_ = json.Unmarshal(envelope.Data, &recent)
	assert.Empty(t, recent)
}

func TestHandleRebuildIndex(t *testing.T) {
	router, _ := newTestRouter(t)

	w, envelope := doRequest(router, "POST", "/api/search/index/rebuild")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.True(t, envelope.Success)
}
