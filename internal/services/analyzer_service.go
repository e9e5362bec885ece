package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"schemascope/internal/models"
)

// tableFetchConcurrency bounds how many tables are assembled at once. Each
// table holds up to five catalog reads open, so the effective connection
// demand stays within the target pool's budget.
const tableFetchConcurrency = 4

// CatalogSource is the read-only catalog query surface the analyzer consumes.
// Implemented by repositories.CatalogRepository.
type CatalogSource interface {
	GetTables(ctx context.Context, schema string) ([]string, error)
	GetColumns(ctx context.Context, schema, table string) ([]models.ColumnMetadata, error)
	GetPrimaryKeys(ctx context.Context, schema, table string) ([]string, error)
	GetForeignKeys(ctx context.Context, schema, table string) ([]models.ForeignKeyMetadata, error)
	GetUniqueConstraints(ctx context.Context, schema, table string) ([]models.UniqueConstraint, error)
	GetCheckConstraints(ctx context.Context, schema, table string) ([]models.CheckConstraint, error)
	GetTableInfo(ctx context.Context, schema, table string) (*models.TableInfo, error)
}

// AnalyzerService turns raw catalog rows into the normalized table model.
type AnalyzerService struct {
	catalog CatalogSource
}

func NewAnalyzerService(catalog CatalogSource) *AnalyzerService {
	return &AnalyzerService{catalog: catalog}
}

// BuildTables assembles the Table entity for every base table in the schema.
// The result preserves the catalog's table enumeration order. Any catalog
// failure aborts the whole build; no partial table list is returned.
func (s *AnalyzerService) BuildTables(ctx context.Context, schema string) ([]models.Table, error) {
	tableNames, err := s.catalog.GetTables(ctx, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tables := make([]models.Table, len(tableNames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(tableFetchConcurrency)

	for i, tableName := range tableNames {
		g.Go(func() error {
			table, err := s.buildTable(gctx, schema, tableName)
			if err != nil {
				return err
			}
			tables[i] = table
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return tables, nil
}

// buildTable issues the five structural fetches for one table concurrently
// and combines the results once all have completed.
func (s *AnalyzerService) buildTable(ctx context.Context, schema, tableName string) (models.Table, error) {
	var (
		columns []models.ColumnMetadata
		pks     []string
		fks     []models.ForeignKeyMetadata
		uniques []models.UniqueConstraint
		checks  []models.CheckConstraint
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if columns, err = s.catalog.GetColumns(gctx, schema, tableName); err != nil {
			return fmt.Errorf("failed to get columns for %s: %w", tableName, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if pks, err = s.catalog.GetPrimaryKeys(gctx, schema, tableName); err != nil {
			return fmt.Errorf("failed to get primary keys for %s: %w", tableName, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if fks, err = s.catalog.GetForeignKeys(gctx, schema, tableName); err != nil {
			return fmt.Errorf("failed to get foreign keys for %s: %w", tableName, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if uniques, err = s.catalog.GetUniqueConstraints(gctx, schema, tableName); err != nil {
			return fmt.Errorf("failed to get unique constraints for %s: %w", tableName, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if checks, err = s.catalog.GetCheckConstraints(gctx, schema, tableName); err != nil {
			return fmt.Errorf("failed to get check constraints for %s: %w", tableName, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.Table{}, err
	}

	table := models.Table{
		Name:              tableName,
		Schema:            schema,
		Columns:           buildColumns(columns),
		PrimaryKeys:       pks,
		UniqueConstraints: uniques,
		CheckConstraints:  checks,
	}

	for _, fk := range fks {
		table.ForeignKeys = append(table.ForeignKeys, models.ForeignKey{
			ConstraintName: fk.ConstraintName,
			FromColumn:     fk.ColumnName,
			ToTable:        fk.ReferencedTable,
			ToColumn:       fk.ReferencedColumn,
			UpdateRule:     fk.UpdateRule,
			DeleteRule:     fk.DeleteRule,
		})
		table.DependsOn = append(table.DependsOn, fk.ReferencedTable)
	}

	return table, nil
}

// CollectTableInfo fetches the enhanced metadata for every table. Keyed by
// table name; consumed by the report synthesizer.
func (s *AnalyzerService) CollectTableInfo(ctx context.Context, schema string, tableNames []string) (map[string]*models.TableInfo, error) {
	infos := make([]*models.TableInfo, len(tableNames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(tableFetchConcurrency)

	for i, tableName := range tableNames {
		g.Go(func() error {
			info, err := s.catalog.GetTableInfo(gctx, schema, tableName)
			if err != nil {
				return fmt.Errorf("failed to get table info for %s: %w", tableName, err)
			}
			infos[i] = info
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(map[string]*models.TableInfo, len(tableNames))
	for i, tableName := range tableNames {
		result[tableName] = infos[i]
	}
	return result, nil
}

func buildColumns(metas []models.ColumnMetadata) []models.Column {
	columns := make([]models.Column, 0, len(metas))
	for _, m := range metas {
		columns = append(columns, models.Column{
			Name:     m.Name,
			Type:     formatColumnType(m),
			Nullable: m.Nullable,
			Default:  m.Default,
		})
	}
	return columns
}

// formatColumnType builds the display type string. A character length wins
// over numeric precision; a type never carries both.
func formatColumnType(m models.ColumnMetadata) string {
	base := strings.ToUpper(m.DataType)

	switch {
	case m.CharMaxLength != nil:
		return fmt.Sprintf("%s(%d)", base, *m.CharMaxLength)
	case m.NumericPrecision != nil:
		scale := 0
		if m.NumericScale != nil {
			scale = *m.NumericScale
		}
		return fmt.Sprintf("%s(%d,%d)", base, *m.NumericPrecision, scale)
	default:
		return base
	}
}
