package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// EntityKind identifies one of the five searchable CRM collections.
type EntityKind string

const (
	KindCase     EntityKind = "case"
	KindClient   EntityKind = "client"
	KindTask     EntityKind = "task"
	KindDocument EntityKind = "document"
	KindHearing  EntityKind = "hearing"
)

// AllKinds is the fan-out order for scope "all". Result assembly appends
// per-kind matches in this order before the final score sort, so it also
// decides equal-score ordering.
var AllKinds = []EntityKind{KindDocument, KindCase, KindClient, KindTask, KindHearing}

// Record is a raw entity row as it comes out of a backing store. The CRM has
// shipped two schema generations per entity (legacy flat fields and newer
// relational ones), and the stores make no shape guarantees, so records stay
// untyped until the search adapters project them.
type Record map[string]any

// ID returns the record identifier, tolerating either schema generation.
func (r Record) ID() string {
	for _, key := range []string{"id", "_id", "uuid"} {
		if v, ok := r[key].(string); ok && v != "" {
			return v
		}
		if v, ok := r[key].(float64); ok {
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

// EntityRecord is the rich-store row: one JSONB blob per entity, mirrored
// from the CRM's primary tables by the sync job.
type EntityRecord struct {
	ID        string          `json:"id" gorm:"primaryKey"`
	Kind      string          `json:"kind" gorm:"index;not null"`
	Data      json.RawMessage `json:"data" gorm:"type:jsonb"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (EntityRecord) TableName() string { return "entity_records" }
