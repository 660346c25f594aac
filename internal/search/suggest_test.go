package search

import (
	"context"
	"errors"
	"testing"

	"github.com/darshan-ceo/beacon-search/internal/models"
	"github.com/darshan-ceo/beacon-search/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest_DemoKindOrder(t *testing.T) {
	rich := store.NewMemoryStore()
	rich.Put(models.KindClient, models.Record{"id": "cl-1", "name": "Invoice Partners LLP"})
	rich.Put(models.KindCase, models.Record{"id": "cs-1", "title": "Invoice dispute"})
	rich.Put(models.KindDocument, models.Record{"id": "doc-1", "title": "Invoice_Scan.pdf"})
	svc := newTestService(rich, Options{})

	suggestions := svc.Suggest(context.Background(), "invoice", 8)
	require.Len(t, suggestions, 3)

	// Fixed priority: documents, then cases, then clients.
	assert.Equal(t, "document", suggestions[0].Type)
	assert.Equal(t, "Invoice_Scan.pdf", suggestions[0].Text)
	assert.Equal(t, "case", suggestions[1].Type)
	assert.Equal(t, "client", suggestions[2].Type)
}

func TestSuggest_LimitStopsScan(t *testing.T) {
	rich := store.NewMemoryStore()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		rich.Put(models.KindDocument, models.Record{"id": id, "title": "Invoice " + id})
	}
	rich.Put(models.KindCase, models.Record{"id": "cs-1", "title": "Invoice dispute"})
	svc := newTestService(rich, Options{})

	suggestions := svc.Suggest(context.Background(), "invoice", 3)
	require.Len(t, suggestions, 3)
	for _, sg := range suggestions {
		assert.Equal(t, "document", sg.Type)
	}
}

func TestSuggest_EmptyInputWithoutAnalytics(t *testing.T) {
	svc := newTestService(store.NewMemoryStore(), Options{})

	suggestions := svc.Suggest(context.Background(), "   ", 5)
	assert.NotNil(t, suggestions)
	assert.Empty(t, suggestions)
}

type fakePopularRepo struct {
	top []models.PopularQuery
	err error
}

func (f *fakePopularRepo) IncrementCount(string) error { return nil }
func (f *fakePopularRepo) GetTop(limit int) ([]models.PopularQuery, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.top) {
		return f.top[:limit], nil
	}
	return f.top, nil
}
func (f *fakePopularRepo) UpdateStats(string, float64, int) error { return nil }

func TestSuggest_EmptyInputFallsBackToPopular(t *testing.T) {
	popular := &fakePopularRepo{top: []models.PopularQuery{
		{QueryText: "itc mismatch", SearchCount: 42},
		{QueryText: "detention order", SearchCount: 17},
	}}
	svc := NewService(store.NewMemoryStore(), nil, store.NewMemorySessionStore(), nil, popular, testLogger(), Options{})

	suggestions := svc.Suggest(context.Background(), "", 5)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "itc mismatch", suggestions[0].Text)
	assert.Equal(t, "query", suggestions[0].Type)
	assert.Equal(t, 42, suggestions[0].Count)
}

func TestSuggest_NeverErrors(t *testing.T) {
	// Failing record store degrades to no suggestions.
	svc := newTestService(failingStore{}, Options{})
	assert.Empty(t, svc.Suggest(context.Background(), "invoice", 5))

	// Failing analytics degrade the popular fallback the same way.
	popular := &fakePopularRepo{err: errors.New("db down")}
	svc = NewService(store.NewMemoryStore(), nil, store.NewMemorySessionStore(), nil, popular, testLogger(), Options{})
	assert.Empty(t, svc.Suggest(context.Background(), "", 5))
}
