package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"schemascope/internal/models"
)

// CatalogRepository answers catalog queries against the database under
// analysis. It returns raw rows and performs no interpretation.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// GetTables returns all base table names in the specified schema.
func (r *CatalogRepository) GetTables(ctx context.Context, schema string) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := r.pool.Query(ctx, query, schema)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}

	return tables, rows.Err()
}

// GetColumns returns all columns for a table in ordinal position order.
// Numeric precision/scale are surfaced only for numeric and decimal columns;
// information_schema also reports a precision for plain integer types, which
// must not leak into the display type.
func (r *CatalogRepository) GetColumns(ctx context.Context, schema, table string) ([]models.ColumnMetadata, error) {
	query := `
		SELECT
			column_name,
			data_type,
			is_nullable = 'YES' AS is_nullable,
			column_default,
			character_maximum_length,
			CASE WHEN data_type IN ('numeric', 'decimal') THEN numeric_precision END,
			CASE WHEN data_type IN ('numeric', 'decimal') THEN numeric_scale END
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := r.pool.Query(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []models.ColumnMetadata
	for rows.Next() {
		var col models.ColumnMetadata
		if err := rows.Scan(&col.Name, &col.DataType, &col.Nullable, &col.Default,
			&col.CharMaxLength, &col.NumericPrecision, &col.NumericScale); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// GetPrimaryKeys returns the primary key column names in key order.
func (r *CatalogRepository) GetPrimaryKeys(ctx context.Context, schema, table string) ([]string, error) {
	query := `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
			AND tc.table_schema = $1
			AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
	`

	rows, err := r.pool.Query(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("query primary keys: %w", err)
	}
	defer rows.Close()

	var pks []string
	for rows.Next() {
		var pk string
		if err := rows.Scan(&pk); err != nil {
			return nil, fmt.Errorf("scan primary key: %w", err)
		}
		pks = append(pks, pk)
	}

	return pks, rows.Err()
}

// GetForeignKeys returns all foreign keys for a table, including the
// referential update and delete rules.
func (r *CatalogRepository) GetForeignKeys(ctx context.Context, schema, table string) ([]models.ForeignKeyMetadata, error) {
	query := `
		SELECT
			tc.constraint_name,
			kcu.column_name,
			ccu.table_name AS foreign_table_name,
			ccu.column_name AS foreign_column_name,
			rc.update_rule,
			rc.delete_rule
		FROM information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage AS ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		JOIN information_schema.referential_constraints AS rc
			ON rc.constraint_name = tc.constraint_name
			AND rc.constraint_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
			AND tc.table_schema = $1
			AND tc.table_name = $2
		ORDER BY tc.constraint_name, kcu.ordinal_position
	`

	rows, err := r.pool.Query(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("query foreign keys: %w", err)
	}
	defer rows.Close()

	var fks []models.ForeignKeyMetadata
	for rows.Next() {
		var fk models.ForeignKeyMetadata
		if err := rows.Scan(&fk.ConstraintName, &fk.ColumnName, &fk.ReferencedTable,
			&fk.ReferencedColumn, &fk.UpdateRule, &fk.DeleteRule); err != nil {
			return nil, fmt.Errorf("scan foreign key: %w", err)
		}
		fks = append(fks, fk)
	}

	return fks, rows.Err()
}

// GetUniqueConstraints returns unique constraints with their column groups.
func (r *CatalogRepository) GetUniqueConstraints(ctx context.Context, schema, table string) ([]models.UniqueConstraint, error) {
	query := `
		SELECT tc.constraint_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'UNIQUE'
			AND tc.table_schema = $1
			AND tc.table_name = $2
		ORDER BY tc.constraint_name, kcu.ordinal_position
	`

	rows, err := r.pool.Query(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("query unique constraints: %w", err)
	}
	defer rows.Close()

	var constraints []models.UniqueConstraint
	for rows.Next() {
		var name, column string
		if err := rows.Scan(&name, &column); err != nil {
			return nil, fmt.Errorf("scan unique constraint: %w", err)
		}
		if n := len(constraints); n > 0 && constraints[n-1].Name == name {
			constraints[n-1].Columns = append(constraints[n-1].Columns, column)
			continue
		}
		constraints = append(constraints, models.UniqueConstraint{Name: name, Columns: []string{column}})
	}

	return constraints, rows.Err()
}

// GetCheckConstraints returns user-defined check constraints. The implicit
// NOT NULL checks Postgres reports through information_schema are filtered out.
func (r *CatalogRepository) GetCheckConstraints(ctx context.Context, schema, table string) ([]models.CheckConstraint, error) {
	query := `
		SELECT cc.constraint_name, cc.check_clause
		FROM information_schema.table_constraints tc
		JOIN information_schema.check_constraints cc
			ON cc.constraint_name = tc.constraint_name
			AND cc.constraint_schema = tc.table_schema
		WHERE tc.constraint_type = 'CHECK'
			AND tc.table_schema = $1
			AND tc.table_name = $2
			AND cc.check_clause NOT LIKE '%IS NOT NULL'
		ORDER BY cc.constraint_name
	`

	rows, err := r.pool.Query(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("query check constraints: %w", err)
	}
	defer rows.Close()

	var constraints []models.CheckConstraint
	for rows.Next() {
		var cc models.CheckConstraint
		if err := rows.Scan(&cc.Name, &cc.Definition); err != nil {
			return nil, fmt.Errorf("scan check constraint: %w", err)
		}
		constraints = append(constraints, cc)
	}

	return constraints, rows.Err()
}

// GetTableInfo returns the enhanced metadata for a table: table and column
// comments, enum value sets and trigger definitions.
func (r *CatalogRepository) GetTableInfo(ctx context.Context, schema, table string) (*models.TableInfo, error) {
	info := &models.TableInfo{
		ColumnComments: make(map[string]string),
		ColumnEnums:    make(map[string][]string),
	}

	commentQuery := `
		SELECT COALESCE(obj_description(c.oid), '')
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2
	`
	if err := r.pool.QueryRow(ctx, commentQuery, schema, table).Scan(&info.Comment); err != nil {
		return nil, fmt.Errorf("query table comment: %w", err)
	}

	columnCommentQuery := `
		SELECT a.attname, col_description(a.attrelid, a.attnum)
		FROM pg_attribute a
		JOIN pg_class c ON c.oid = a.attrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2
			AND a.attnum > 0 AND NOT a.attisdropped
			AND col_description(a.attrelid, a.attnum) IS NOT NULL
	`
	rows, err := r.pool.Query(ctx, columnCommentQuery, schema, table)
	if err != nil {
		return nil, fmt.Errorf("query column comments: %w", err)
	}
	for rows.Next() {
		var column, comment string
		if err := rows.Scan(&column, &comment); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan column comment: %w", err)
		}
		info.ColumnComments[column] = comment
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column comments: %w", err)
	}

	enumQuery := `
		SELECT a.attname, array_agg(e.enumlabel ORDER BY e.enumsortorder)
		FROM pg_attribute a
		JOIN pg_class c ON c.oid = a.attrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		JOIN pg_type t ON t.oid = a.atttypid
		JOIN pg_enum e ON e.enumtypid = t.oid
		WHERE n.nspname = $1 AND c.relname = $2
			AND a.attnum > 0 AND NOT a.attisdropped
		GROUP BY a.attname
	`
	rows, err = r.pool.Query(ctx, enumQuery, schema, table)
	if err != nil {
		return nil, fmt.Errorf("query enum values: %w", err)
	}
	for rows.Next() {
		var column string
		var labels []string
		if err := rows.Scan(&column, &labels); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan enum values: %w", err)
		}
		info.ColumnEnums[column] = models.ParseEnumValues(labels)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enum values: %w", err)
	}

	triggerQuery := `
		SELECT t.tgname, pg_get_triggerdef(t.oid)
		FROM pg_trigger t
		JOIN pg_class c ON c.oid = t.tgrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2
			AND NOT t.tgisinternal
		ORDER BY t.tgname
	`
	rows, err = r.pool.Query(ctx, triggerQuery, schema, table)
	if err != nil {
		return nil, fmt.Errorf("query triggers: %w", err)
	}
	for rows.Next() {
		var trg models.Trigger
		if err := rows.Scan(&trg.Name, &trg.Definition); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan trigger: %w", err)
		}
		info.Triggers = append(info.Triggers, trg)
	}
	rows.Close()

	return info, rows.Err()
}

// GetReferencingTables returns the names of tables holding a foreign key that
// points at the given table.
func (r *CatalogRepository) GetReferencingTables(ctx context.Context, schema, table string) ([]string, error) {
	query := `
		SELECT DISTINCT tc.table_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.constraint_column_usage ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
			AND tc.table_schema = $1
			AND ccu.table_name = $2
		ORDER BY tc.table_name
	`

	rows, err := r.pool.Query(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("query referencing tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan referencing table: %w", err)
		}
		tables = append(tables, name)
	}

	return tables, rows.Err()
}
