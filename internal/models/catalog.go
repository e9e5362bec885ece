package models

// Raw catalog rows, scanned as-is from information_schema / pg_catalog.
// Interpretation (type display strings, depends_on) happens in the analyzer.

type ColumnMetadata struct {
	Name             string
	DataType         string
	Nullable         bool
	Default          *string
	CharMaxLength    *int
	NumericPrecision *int
	NumericScale     *int
}

type ForeignKeyMetadata struct {
	ConstraintName   string
	ColumnName       string
	ReferencedTable  string
	ReferencedColumn string
	UpdateRule       string
	DeleteRule       string
}
