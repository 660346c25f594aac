package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SearchQuery represents search analytics
type SearchQuery struct {
	BaseModel
	QueryText       string    `json:"query_text" gorm:"not null"`
	Scope           string    `json:"scope"`
	Provider        string    `json:"provider"`
	UserSession     string    `json:"user_session"`
	ResultsCount    int       `json:"results_count" gorm:"default:0"`
	SearchTimestamp time.Time `json:"search_timestamp" gorm:"default:NOW()"`
	ResponseTimeMs  int       `json:"response_time_ms"`
	UserAgent       string    `json:"user_agent"`
	IPAddress       string    `json:"ip_address" gorm:"type:inet"`
}

// PopularQuery represents frequently searched terms
type PopularQuery struct {
	BaseModel
	QueryText         string    `json:"query_text" gorm:"unique;not null"`
	SearchCount       int       `json:"search_count" gorm:"default:1"`
	AvgResultsCount   float64   `json:"avg_results_count" gorm:"type:decimal(5,2);default:0"`
	AvgResponseTimeMs int       `json:"avg_response_time_ms" gorm:"default:0"`
	LastSearched      time.Time `json:"last_searched" gorm:"default:NOW()"`
}

// SystemHealth represents service health monitoring
type SystemHealth struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ServiceName    string    `json:"service_name" gorm:"not null"`
	Status         string    `json:"status" gorm:"not null;check:status IN ('healthy','degraded','unhealthy')"`
	ResponseTimeMs int       `json:"response_time_ms"`
	ErrorMessage   string    `json:"error_message"`
	CheckedAt      time.Time `json:"checked_at" gorm:"default:NOW()"`
}

// Database interfaces for repository pattern
type SearchQueryRepository interface {
	Create(query *SearchQuery) error
	GetBySession(session string) ([]SearchQuery, error)
	GetRecentSearches(limit int) ([]SearchQuery, error)
}

type PopularQueryRepository interface {
	IncrementCount(queryText string) error
	GetTop(limit int) ([]PopularQuery, error)
	UpdateStats(queryText string, resultsCount float64, responseTime int) error
}

type SystemHealthRepository interface {
	UpdateServiceHealth(serviceName, status string, responseTime int, errorMsg string) error
	GetServiceHealth(serviceName string) (*SystemHealth, error)
	GetAllServicesHealth() ([]SystemHealth, error)
}

type EntityRecordRepository interface {
	Upsert(record *EntityRecord) error
	GetByKind(kind EntityKind) ([]EntityRecord, error)
	CountByKind(kind EntityKind) (int64, error)
	DeleteByKind(kind EntityKind) error
}

// TableName methods for custom table names
func (SearchQuery) TableName() string  { return "search_queries" }
func (PopularQuery) TableName() string { return "popular_queries" }
func (SystemHealth) TableName() string { return "system_health" }

func (sq *SearchQuery) Validate() error {
	if sq.QueryText == "" {
		return fmt.Errorf("query text is required")
	}
	if sq.ResponseTimeMs < 0 {
		return fmt.Errorf("response time cannot be negative")
	}
	return nil
}

func (sq *SearchQuery) BeforeCreate(tx *gorm.DB) error {
	return sq.Validate()
}
