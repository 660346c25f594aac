package store

import (
	"context"
	"testing"

	"github.com/darshan-ceo/beacon-search/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_RichWinsOnCollision(t *testing.T) {
	rich := []models.Record{
		{"id": "doc-1", "title": "Fresh copy"},
	}
	flat := []models.Record{
		{"id": "doc-1", "file_name": "Stale copy"},
		{"id": "doc-2", "file_name": "Flat only"},
	}

	merged := Merge(rich, flat)
	require.Len(t, merged, 2)

	assert.Equal(t, "Fresh copy", merged[0]["title"])
	assert.Equal(t, "Flat only", merged[1]["file_name"])
}

func TestMerge_PreservesOrder(t *testing.T) {
	rich := []models.Record{{"id": "a"}, {"id": "b"}}
	flat := []models.Record{{"id": "c"}, {"id": "d"}}

	merged := Merge(rich, flat)
	require.Len(t, merged, 4)
	for i, want := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, want, merged[i].ID())
	}
}

func TestMerge_KeepsRecordsWithoutIDs(t *testing.T) {
	rich := []models.Record{{"title": "no id rich"}}
	flat := []models.Record{{"title": "no id flat"}}

	merged := Merge(rich, flat)
	assert.Len(t, merged, 2)
}

func TestMerge_EmptyInputs(t *testing.T) {
	assert.Empty(t, Merge(nil, nil))
	assert.Len(t, Merge([]models.Record{{"id": "a"}}, nil), 1)
	assert.Len(t, Merge(nil, []models.Record{{"id": "a"}}), 1)
}

func TestMemorySessionStore(t *testing.T) {
	s := NewMemorySessionStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "key", "value"))
	val, err := s.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", val)

	require.NoError(t, s.Delete(ctx, "key"))
	_, err = s.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordID_SchemaTolerance(t *testing.T) {
	assert.Equal(t, "abc", models.Record{"id": "abc"}.ID())
	assert.Equal(t, "abc", models.Record{"_id": "abc"}.ID())
	assert.Equal(t, "abc", models.Record{"uuid": "abc"}.ID())
	assert.Equal(t, "42", models.Record{"id": float64(42)}.ID())
	assert.Equal(t, "", models.Record{"id": map[string]any{}}.ID())
	assert.Equal(t, "", models.Record{}.ID())
}
