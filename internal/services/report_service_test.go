package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemascope/internal/models"
)

func shopTables() []models.Table {
	return []models.Table{
		{
			Name:   "customers",
			Schema: "public",
			Columns: []models.Column{
				{Name: "id", Type: "INTEGER"},
				{Name: "email", Type: "CHARACTER VARYING(255)"},
				{Name: "loyalty_points", Type: "INTEGER", Default: strPtr("0")},
			},
			PrimaryKeys: []string{"id"},
			UniqueConstraints: []models.UniqueConstraint{
				{Name: "customers_email_key", Columns: []string{"email"}},
			},
		},
		{
			Name:   "orders",
			Schema: "public",
			Columns: []models.Column{
				{Name: "id", Type: "INTEGER"},
				{Name: "customer_id", Type: "INTEGER"},
				{Name: "note", Type: "TEXT", Nullable: true},
			},
			PrimaryKeys: []string{"id"},
			ForeignKeys: []models.ForeignKey{
				{ConstraintName: "orders_customer_id_fkey", FromColumn: "customer_id", ToTable: "customers", ToColumn: "id", UpdateRule: "NO ACTION", DeleteRule: "CASCADE"},
			},
			DependsOn: []string{"customers"},
			CheckConstraints: []models.CheckConstraint{
				{Name: "orders_id_check", Definition: "((id > 0))"},
			},
		},
	}
}

func TestGenerateInsertionGuide_EndToEnd(t *testing.T) {
	tables := shopTables()
	order, err := ResolveInsertionOrder(tables)
	require.NoError(t, err)
	require.Equal(t, []string{"customers", "orders"}, order)

	guide := GenerateInsertionGuide(tables, order)

	assert.Contains(t, guide, "1. customers")
	assert.Contains(t, guide, "2. orders")
	assert.Less(t, strings.Index(guide, "1. customers"), strings.Index(guide, "2. orders"))

	// customer_id is NOT NULL with no default, so it is a required column.
	assert.Contains(t, guide, "depends on: customers")
	assert.Contains(t, guide, "required columns: id, customer_id")
	// loyalty_points has a default, nullable note is optional: neither required.
	assert.Contains(t, guide, "required columns: id, email\n")
	assert.NotContains(t, guide, "loyalty_points")
	assert.NotContains(t, guide, "note")

	assert.Contains(t, guide, "unique: (email)")
	assert.Contains(t, guide, "check: ((id > 0))")
}

func TestGenerateInsertionGuide_DuplicateDependenciesListedOnce(t *testing.T) {
	tables := []models.Table{
		depTable("accounts"),
		depTable("transfers", "accounts", "accounts"),
	}
	order, err := ResolveInsertionOrder(tables)
	require.NoError(t, err)

	guide := GenerateInsertionGuide(tables, order)
	assert.Contains(t, guide, "depends on: accounts\n")
	assert.NotContains(t, guide, "accounts, accounts")
}

func TestGenerateSchemaDigest_SummaryAndRelationships(t *testing.T) {
	digest := GenerateSchemaDigest(shopTables(), nil)

	assert.Contains(t, digest, "2 tables, 1 foreign keys")
	assert.Contains(t, digest, "- orders -> customers (customer_id -> id) [CASCADE]")
}

func TestGenerateSchemaDigest_CoreTableRanking(t *testing.T) {
	tables := []models.Table{
		depTable("orders", "customers"),
		depTable("invoices", "customers"),
		depTable("shipments", "customers", "orders"),
		depTable("customers"),
		depTable("audit_log"), // no relationships at all
	}

	digest := GenerateSchemaDigest(tables, nil)

	// customers is referenced by 3 tables and must rank first.
	assert.Contains(t, digest, "- customers (PK: none) referenced by 3 table(s)")
	assert.Contains(t, digest, "- orders (PK: none) referenced by 1 table(s)")
	custIdx := strings.Index(digest, "- customers (PK:")
	ordIdx := strings.Index(digest, "- orders (PK:")
	invIdx := strings.Index(digest, "- invoices (PK:")
	require.NotEqual(t, -1, custIdx)
	assert.Less(t, custIdx, ordIdx)
	assert.Less(t, ordIdx, invIdx)

	// A table with no incoming or outgoing foreign keys is not a core table.
	coreSection := digest[strings.Index(digest, "## Core tables"):strings.Index(digest, "## Relationships")]
	assert.NotContains(t, coreSection, "audit_log")
}

func TestGenerateSchemaDigest_EnhancedInfo(t *testing.T) {
	tables := []models.Table{
		{
			Name: "users",
			Columns: []models.Column{
				{Name: "id", Type: "INTEGER"},
				{Name: "status", Type: "USER-DEFINED", Nullable: true, Default: strPtr("'active'::user_status")},
				{Name: "mood", Type: "USER-DEFINED", Nullable: true},
			},
			PrimaryKeys: []string{"id"},
		},
	}
	info := map[string]*models.TableInfo{
		"users": {
			Comment:        "Registered accounts",
			ColumnComments: map[string]string{"status": "lifecycle state"},
			ColumnEnums: map[string][]string{
				// Native label list and delimited string forms must render alike.
				"status": {"active", "inactive", "banned"},
				"mood":   {"{happy,sad}"},
			},
			Triggers: []models.Trigger{
				{Name: "users_touch", Definition: "CREATE TRIGGER users_touch BEFORE UPDATE ..."},
			},
		},
	}

	digest := GenerateSchemaDigest(tables, info)

	assert.Contains(t, digest, "### users\nRegistered accounts\n")
	assert.Contains(t, digest, "Primary key: id")
	assert.Contains(t, digest, "-- lifecycle state")
	assert.Contains(t, digest, "(values: active, inactive, banned)")
	assert.Contains(t, digest, "(values: happy, sad)")
	assert.Contains(t, digest, "Trigger users_touch: CREATE TRIGGER users_touch BEFORE UPDATE ...")
	assert.Contains(t, digest, "default 'active'::user_status")
}

func TestGenerateSchemaDigest_SelfReferenceNotCountedAsIncoming(t *testing.T) {
	tables := []models.Table{
		depTable("employees", "employees"),
	}

	digest := GenerateSchemaDigest(tables, nil)
	assert.Contains(t, digest, "- employees (PK: none) referenced by 0 table(s)")
}

func TestGenerateSchemaDigest_Deterministic(t *testing.T) {
	tables := shopTables()
	assert.Equal(t, GenerateSchemaDigest(tables, nil), GenerateSchemaDigest(tables, nil))
}

func TestReferenceCounts_CountsReferencingTablesNotColumns(t *testing.T) {
	tables := []models.Table{
		depTable("transfers", "accounts", "accounts"),
		depTable("accounts"),
	}

	counts := referenceCounts(tables)
	assert.Equal(t, 1, counts["accounts"], "two columns from one table count once")
}
