package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"schemascope/internal/config"
	"schemascope/internal/database"
	"schemascope/internal/models"
	"schemascope/internal/repositories"
)

type AnalysisRequest struct {
	Connection config.Connection `json:"connection"`
	Schema     string            `json:"schema"`
	Mode       string            `json:"mode"`
}

type AnalysisResult struct {
	Run            *models.AnalysisRun `json:"run"`
	Tables         []models.Table      `json:"tables"`
	InsertionOrder []string            `json:"insertion_order,omitempty"`
}

// catalogOpener connects to the target database and hands back a catalog
// source plus a release function. Swappable in tests.
type catalogOpener func(ctx context.Context, dsn string) (CatalogSource, func(), error)

func openCatalog(ctx context.Context, dsn string) (CatalogSource, func(), error) {
	pool, err := database.ConnectToTarget(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewCatalogRepository(pool), pool.Close, nil
}

// RunStore persists analysis run records. Implemented by
// repositories.RunRepository.
type RunStore interface {
	Create(ctx context.Context, run *models.AnalysisRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRun, error)
	List(ctx context.Context, limit int) ([]models.AnalysisRun, error)
}

// ReportStore caches rendered report text. Implemented by
// repositories.ReportCacheRepository.
type ReportStore interface {
	StoreGuide(ctx context.Context, runID string, text string) error
	StoreDigest(ctx context.Context, runID string, text string) error
	GetGuide(ctx context.Context, runID string) (string, error)
	GetDigest(ctx context.Context, runID string) (string, error)
}

// AnalysisService runs the full pipeline: connect to the target, build the
// table model, resolve the insertion order, render and export the reports,
// and record the run.
type AnalysisService struct {
	runRepo     RunStore
	reportCache ReportStore
	export      *ExportService
	open        catalogOpener
}

func NewAnalysisService(runRepo RunStore, reportCache ReportStore, export *ExportService) *AnalysisService {
	return &AnalysisService{
		runRepo:     runRepo,
		reportCache: reportCache,
		export:      export,
		open:        openCatalog,
	}
}

func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	if req.Schema == "" {
		req.Schema = "public"
	}
	if req.Mode == "" {
		req.Mode = models.AnalysisModeFull
	}
	if req.Mode != models.AnalysisModeFull && req.Mode != models.AnalysisModeDigest {
		return nil, fmt.Errorf("unknown analysis mode %q", req.Mode)
	}

	run := &models.AnalysisRun{
		DatabaseName: req.Connection.DatabaseName(),
		SchemaName:   req.Schema,
		Mode:         req.Mode,
	}
	run.Prepare()

	dsn, err := req.Connection.DSN()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	catalog, release, err := s.open(ctx, dsn)
	if err != nil {
		s.recordFailure(run, err)
		return nil, err
	}
	defer release()

	analyzer := NewAnalyzerService(catalog)

	tables, err := analyzer.BuildTables(ctx, req.Schema)
	if err != nil {
		s.recordFailure(run, err)
		return nil, err
	}

	tableNames := make([]string, 0, len(tables))
	fkCount := 0
	for _, t := range tables {
		tableNames = append(tableNames, t.Name)
		fkCount += len(t.ForeignKeys)
	}
	run.TableCount = len(tables)
	run.ForeignKeyCount = fkCount

	var order []string
	if req.Mode == models.AnalysisModeFull {
		// A cycle aborts the run: the discovered tables stay valid, but no
		// insertion order exists, so no files are written.
		order, err = ResolveInsertionOrder(tables)
		if err != nil {
			s.recordFailure(run, err)
			return nil, err
		}
	}

	info, err := analyzer.CollectTableInfo(ctx, req.Schema, tableNames)
	if err != nil {
		s.recordFailure(run, err)
		return nil, err
	}

	digest := GenerateSchemaDigest(tables, info)
	now := time.Now()

	digestPath, err := s.export.WriteDigest(run.DatabaseName, digest, now)
	if err != nil {
		s.recordFailure(run, err)
		return nil, err
	}
	run.DigestPath = &digestPath

	if req.Mode == models.AnalysisModeFull {
		guide := GenerateInsertionGuide(tables, order)
		guidePath, err := s.export.WriteGuide(run.DatabaseName, guide, now)
		if err != nil {
			s.recordFailure(run, err)
			return nil, err
		}
		run.GuidePath = &guidePath

		if cacheErr := s.reportCache.StoreGuide(ctx, run.ID.String(), guide); cacheErr != nil {
			log.Printf("failed to cache insertion guide for run %s: %v", run.ID, cacheErr)
		}
	}

	if cacheErr := s.reportCache.StoreDigest(ctx, run.ID.String(), digest); cacheErr != nil {
		log.Printf("failed to cache schema digest for run %s: %v", run.ID, cacheErr)
	}

	run.Status = models.RunStatusCompleted
	completed := time.Now()
	run.CompletedAt = &completed

	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record analysis run: %w", err)
	}

	return &AnalysisResult{Run: run, Tables: tables, InsertionOrder: order}, nil
}

// recordFailure stores a failed run row. Best effort: the original error is
// what the caller needs to see, not a secondary bookkeeping failure.
func (s *AnalysisService) recordFailure(run *models.AnalysisRun, cause error) {
	msg := cause.Error()
	run.Status = models.RunStatusFailed
	run.Error = &msg
	completed := time.Now()
	run.CompletedAt = &completed

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.runRepo.Create(ctx, run); err != nil {
		log.Printf("failed to record failed analysis run %s: %v", run.ID, err)
	}
}

func (s *AnalysisService) GetRun(ctx context.Context, id uuid.UUID) (*models.AnalysisRun, error) {
	return s.runRepo.GetByID(ctx, id)
}

func (s *AnalysisService) ListRuns(ctx context.Context, limit int) ([]models.AnalysisRun, error) {
	return s.runRepo.List(ctx, limit)
}

func (s *AnalysisService) GetGuideText(ctx context.Context, id uuid.UUID) (string, error) {
	return s.reportCache.GetGuide(ctx, id.String())
}

func (s *AnalysisService) GetDigestText(ctx context.Context, id uuid.UUID) (string, error) {
	return s.reportCache.GetDigest(ctx, id.String())
}
