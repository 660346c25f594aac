package store

import (
	"context"

	"github.com/darshan-ceo/beacon-search/internal/models"
)

// RecordStore serves raw entity rows for one of the five searchable
// collections. Implementations must not assume a record shape beyond "JSON
// object with some identifier"; schema tolerance lives in the search adapters.
type RecordStore interface {
	GetAll(ctx context.Context, kind models.EntityKind) ([]models.Record, error)
}

// SessionStore is small key-value persistence scoped to one user session.
// It backs the provider flag and the recent-search list.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// ErrNotFound is returned by SessionStore.Get when the key has no value.
// Redis returns its own nil error; implementations translate it.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "session key not found" }

// Merge combines rows for the same kind from the rich store and the flat
// store. When both stores hold the same identifier the rich copy wins
// wholesale; no field-level reconciliation is attempted. Rich rows keep
// their order, flat-only rows are appended after them.
func Merge(rich, flat []models.Record) []models.Record {
	merged := make([]models.Record, 0, len(rich)+len(flat))
	seen := make(map[string]bool, len(rich))

	for _, rec := range rich {
		merged = append(merged, rec)
		if id := rec.ID(); id != "" {
			seen[id] = true
		}
	}

	for _, rec := range flat {
		id := rec.ID()
		if id != "" && seen[id] {
			continue
		}
		merged = append(merged, rec)
	}

	return merged
}
