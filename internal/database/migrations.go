package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func RunMigrations(pool *pgxpool.Pool) error {
	ctx := context.Background()

	migrations := []string{
		createAnalysisRunsTable,
		addArtifactPathsToAnalysisRuns,
	}

	for i, migration := range migrations {
		log.Printf("Running migration %d/%d", i+1, len(migrations))
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Println("All migrations completed successfully")
	return nil
}

const createAnalysisRunsTable = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id UUID PRIMARY KEY,
	database_name TEXT NOT NULL,
	schema_name TEXT NOT NULL DEFAULT 'public',
	mode TEXT NOT NULL DEFAULT 'full',
	status TEXT NOT NULL,
	table_count INTEGER NOT NULL DEFAULT 0,
	foreign_key_count INTEGER NOT NULL DEFAULT 0,
	error TEXT,
	started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_analysis_runs_started_at ON analysis_runs (started_at DESC);
`

const addArtifactPathsToAnalysisRuns = `
ALTER TABLE analysis_runs ADD COLUMN IF NOT EXISTS guide_path TEXT;
ALTER TABLE analysis_runs ADD COLUMN IF NOT EXISTS digest_path TEXT;
`
