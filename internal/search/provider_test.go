package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/darshan-ceo/beacon-search/internal/models"
	"github.com/darshan-ceo/beacon-search/internal/remote"
	"github.com/darshan-ceo/beacon-search/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// searchAPIStub answers the probe chain and search calls like the hosted API.
func searchAPIStub(probeCount *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/ping":
			atomic.AddInt32(probeCount, 1)
			w.WriteHeader(http.StatusOK)
		case "/search":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(remote.SearchResponse{Results: []remote.SearchResult{}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestProvider_PersistedAcrossInstances(t *testing.T) {
	var probeCount int32
	server := searchAPIStub(&probeCount)
	defer server.Close()

	sessions := store.NewMemorySessionStore()
	ctx := context.Background()

	first := NewService(nil, nil, sessions, remote.NewClient(server.URL, "test-key", testLogger()), nil, testLogger(), Options{SessionID: "sess-shared"})

	_, err := first.Search(ctx, "itc", "all", 10, "")
	require.NoError(t, err)
	assert.Equal(t, ProviderAPI, first.GetProvider())
	assert.Equal(t, int32(1), atomic.LoadInt32(&probeCount))

	stored, err := sessions.Get(ctx, "search:provider:sess-shared")
	require.NoError(t, err)
	assert.Equal(t, "api", stored)

	// A second instance on the same session reuses the stored choice
	// without probing again.
	second := NewService(nil, nil, sessions, remote.NewClient(server.URL, "test-key", testLogger()), nil, testLogger(), Options{SessionID: "sess-shared"})

	_, err = second.Search(ctx, "penalty", "all", 10, "")
	require.NoError(t, err)
	assert.Equal(t, ProviderAPI, second.GetProvider())
	assert.Equal(t, int32(1), atomic.LoadInt32(&probeCount))
}

func TestProvider_ProbeFallbackChain(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			json.NewEncoder(w).Encode(remote.SearchResponse{})
			return
		}
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewService(nil, nil, store.NewMemorySessionStore(), remote.NewClient(server.URL, "test-key", testLogger()), nil, testLogger(), Options{})

	_, err := svc.Search(context.Background(), "itc", "all", 10, "")
	require.NoError(t, err)

	assert.Equal(t, ProviderAPI, svc.GetProvider())
	assert.Equal(t, []string{"/search/ping", "/health"}, paths)
}

func TestProvider_AllProbesFailFallsBackToDemo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sessions := store.NewMemorySessionStore()
	svc := NewService(store.NewMemoryStore(), nil, sessions, remote.NewClient(server.URL, "test-key", testLogger()), nil, testLogger(), Options{SessionID: "sess-demo"})
	ctx := context.Background()

	_, err := svc.Search(ctx, "itc", "all", 10, "")
	require.NoError(t, err)
	assert.Equal(t, ProviderDemo, svc.GetProvider())

	stored, err := sessions.Get(ctx, "search:provider:sess-demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", stored)
}

func TestProvider_DemoWhenNoRemote(t *testing.T) {
	svc := newTestService(store.NewMemoryStore(), Options{})

	_, err := svc.Search(context.Background(), "itc", "all", 10, "")
	require.NoError(t, err)
	assert.Equal(t, ProviderDemo, svc.GetProvider())
}

func TestSubscribeProvider(t *testing.T) {
	svc := newTestService(store.NewMemoryStore(), Options{})
	ctx := context.Background()

	var notified []Provider
	unsubscribe := svc.SubscribeProvider(func(p Provider) {
		notified = append(notified, p)
	})

	// Unknown at subscription time, so no immediate fire.
	assert.Empty(t, notified)
	assert.Equal(t, ProviderUnknown, svc.GetProvider())

	_, err := svc.Search(ctx, "itc", "all", 10, "")
	require.NoError(t, err)
	assert.Equal(t, []Provider{ProviderDemo}, notified)

	// A late subscriber gets the known provider immediately.
	var late []Provider
	lateUnsub := svc.SubscribeProvider(func(p Provider) {
		late = append(late, p)
	})
	defer lateUnsub()
	assert.Equal(t, []Provider{ProviderDemo}, late)

	// After unsubscribing, re-determination no longer notifies.
	unsubscribe()
	require.NoError(t, svc.RefreshSearchData(ctx))
	_, err = svc.Search(ctx, "penalty", "all", 10, "")
	require.NoError(t, err)
	assert.Equal(t, []Provider{ProviderDemo}, notified)
	assert.Equal(t, []Provider{ProviderDemo, ProviderDemo}, late)
}

func TestRefreshSearchData(t *testing.T) {
	rich := store.NewMemoryStore()
	rich.Put(models.KindDocument, models.Record{"id": "doc-1", "title": "Invoice.pdf"})
	sessions := store.NewMemorySessionStore()
	svc := NewService(rich, nil, sessions, nil, nil, testLogger(), Options{SessionID: "sess-refresh"})
	ctx := context.Background()

	_, err := svc.Search(ctx, "invoice", "documents", 10, "")
	require.NoError(t, err)
	require.Equal(t, ProviderDemo, svc.GetProvider())
	require.NotEmpty(t, svc.cache.entries)

	require.NoError(t, svc.RefreshSearchData(ctx))

	assert.Equal(t, ProviderUnknown, svc.GetProvider())
	assert.Empty(t, svc.cache.entries)
	_, err = sessions.Get(ctx, "search:provider:sess-refresh")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
