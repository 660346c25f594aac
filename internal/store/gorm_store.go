package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/darshan-ceo/beacon-search/internal/models"
	"github.com/sirupsen/logrus"
)

// GormStore is the rich backing store: entity snapshots mirrored from the
// CRM's relational tables into entity_records JSONB rows.
type GormStore struct {
	records models.EntityRecordRepository
	logger  *logrus.Logger
}

func NewGormStore(records models.EntityRecordRepository, logger *logrus.Logger) *GormStore {
	return &GormStore{
		records: records,
		logger:  logger,
	}
}

func (s *GormStore) GetAll(ctx context.Context, kind models.EntityKind) ([]models.Record, error) {
	rows, err := s.records.GetByKind(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s records: %w", kind, err)
	}

	results := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		var rec models.Record
		if err := json.Unmarshal(row.Data, &rec); err != nil {
			// A corrupt blob costs one record, not the whole collection.
			s.logger.WithError(err).WithFields(logrus.Fields{
				"kind": kind,
				"id":   row.ID,
			}).Warn("Skipping undecodable entity record")
			continue
		}
		if rec.ID() == "" {
			rec["id"] = row.ID
		}
		results = append(results, rec)
	}

	return results, nil
}

func (s *GormStore) Count(ctx context.Context, kind models.EntityKind) (int64, error) {
	return s.records.CountByKind(kind)
}

// Put serializes a record into the entity_records mirror. Used by the seeder
// and the sync path, not by search itself.
func (s *GormStore) Put(ctx context.Context, kind models.EntityKind, rec models.Record) error {
	id := rec.ID()
	if id == "" {
		return fmt.Errorf("record has no identifier")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", id, err)
	}

	return s.records.Upsert(&models.EntityRecord{
		ID:   id,
		Kind: string(kind),
		Data: data,
	})
}
