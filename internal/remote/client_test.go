package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestClient_Search(t *testing.T) {
	expected := SearchResponse{
		Results: []SearchResult{{
			Type:  "document",
			ID:    "doc-1",
			Title: "SCN_Reply_Draft.docx",
			Score: 175,
		}},
		Total:      1,
		NextCursor: "",
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "scn reply", r.URL.Query().Get("q"))
		assert.Equal(t, "documents", r.URL.Query().Get("scope"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expected)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", quietLogger())

	response, err := client.Search(context.Background(), "scn reply", "documents", 10, "")
	require.NoError(t, err)
	require.Len(t, response.Results, 1)
	assert.Equal(t, expected.Results[0].ID, response.Results[0].ID)
	assert.Equal(t, 1, response.Total)
}

func TestClient_SearchPassesCursor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "20", r.URL.Query().Get("cursor"))
		json.NewEncoder(w).Encode(SearchResponse{})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", quietLogger())
	_, err := client.Search(context.Background(), "itc", "all", 10, "20")
	require.NoError(t, err)
}

func TestClient_Suggest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/suggest", r.URL.Path)
		assert.Equal(t, "inv", r.URL.Query().Get("q"))

		json.NewEncoder(w).Encode(SuggestResponse{Suggestions: []Suggestion{
			{Text: "invoice reconciliation", Type: "query", Count: 12},
		}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", quietLogger())

	suggestions, err := client.Suggest(context.Background(), "inv", 8)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "invoice reconciliation", suggestions[0].Text)
}

func TestClient_RebuildIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/search/index/rebuild", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req RebuildRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "documents", req.Scope)

		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", quietLogger())
	err := client.RebuildIndex(context.Background(), "documents")
	require.NoError(t, err)
}

func TestClient_ReindexDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/search/index/doc/doc-42", r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", quietLogger())
	err := client.ReindexDocument(context.Background(), "doc-42")
	require.NoError(t, err)
}

func TestClient_Probe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search/ping" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", quietLogger())

	assert.NoError(t, client.Probe(context.Background(), "/search/ping"))
	assert.Error(t, client.Probe(context.Background(), "/health"))
}

func TestClient_ErrorHandling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid request"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", quietLogger())

	_, err := client.Search(context.Background(), "itc", "all", 10, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestSearchWithRetry_RecoversAfterTransientFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(SearchResponse{Total: 3})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", quietLogger())

	response, err := client.SearchWithRetry(context.Background(), "itc", "all", 10, "")
	require.NoError(t, err)
	assert.Equal(t, 3, response.Total)
	assert.Equal(t, 2, attempts)
}

func TestSearchWithRetry_CancelledContextAbortsImmediately(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SearchWithRetry(ctx, "itc", "all", 10, "")
	assert.ErrorIs(t, err, context.Canceled)
}
