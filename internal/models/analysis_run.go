package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"

	// AnalysisModeFull computes the insertion order and renders both reports.
	AnalysisModeFull = "full"
	// AnalysisModeDigest skips order resolution and renders the digest only,
	// so a schema with circular foreign keys can still be summarized.
	AnalysisModeDigest = "digest"
)

type AnalysisRun struct {
	ID              uuid.UUID  `json:"id"`
	DatabaseName    string     `json:"database_name"`
	SchemaName      string     `json:"schema_name"`
	Mode            string     `json:"mode"`
	Status          string     `json:"status"`
	TableCount      int        `json:"table_count"`
	ForeignKeyCount int        `json:"foreign_key_count"`
	Error           *string    `json:"error,omitempty"`
	GuidePath       *string    `json:"guide_path,omitempty"`
	DigestPath      *string    `json:"digest_path,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

func (r *AnalysisRun) Prepare() {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Mode == "" {
		r.Mode = AnalysisModeFull
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
}
