package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"schemascope/internal/models"
)

type RunRepository struct {
	pool *pgxpool.Pool
}

func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

func (r *RunRepository) Create(ctx context.Context, run *models.AnalysisRun) error {
	run.Prepare()

	query := `
		INSERT INTO analysis_runs (id, database_name, schema_name, mode, status,
			table_count, foreign_key_count, error, guide_path, digest_path, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		run.ID,
		run.DatabaseName,
		run.SchemaName,
		run.Mode,
		run.Status,
		run.TableCount,
		run.ForeignKeyCount,
		run.Error,
		run.GuidePath,
		run.DigestPath,
		run.StartedAt,
		run.CompletedAt,
	)

	return err
}

func (r *RunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRun, error) {
	query := `
		SELECT id, database_name, schema_name, mode, status, table_count,
			foreign_key_count, error, guide_path, digest_path, started_at, completed_at
		FROM analysis_runs WHERE id = $1
	`

	var run models.AnalysisRun
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.DatabaseName,
		&run.SchemaName,
		&run.Mode,
		&run.Status,
		&run.TableCount,
		&run.ForeignKeyCount,
		&run.Error,
		&run.GuidePath,
		&run.DigestPath,
		&run.StartedAt,
		&run.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &run, nil
}

func (r *RunRepository) List(ctx context.Context, limit int) ([]models.AnalysisRun, error) {
	if limit <= 0 {
		limit = 100 // Default limit
	}

	query := `
		SELECT id, database_name, schema_name, mode, status, table_count,
			foreign_key_count, error, guide_path, digest_path, started_at, completed_at
		FROM analysis_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.AnalysisRun
	for rows.Next() {
		var run models.AnalysisRun
		err := rows.Scan(
			&run.ID,
			&run.DatabaseName,
			&run.SchemaName,
			&run.Mode,
			&run.Status,
			&run.TableCount,
			&run.ForeignKeyCount,
			&run.Error,
			&run.GuidePath,
			&run.DigestPath,
			&run.StartedAt,
			&run.CompletedAt,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
