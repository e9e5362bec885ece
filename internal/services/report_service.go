package services

import (
	"fmt"
	"sort"
	"strings"

	"schemascope/internal/models"
	"schemascope/internal/utils"
)

// GenerateInsertionGuide renders the human-readable data loading guide:
// every table in dependency-safe order with the facts an inserter needs.
// Pure function of its inputs; performs no catalog queries.
func GenerateInsertionGuide(tables []models.Table, order []string) string {
	byName := make(map[string]*models.Table, len(tables))
	for i := range tables {
		byName[tables[i].Name] = &tables[i]
	}

	var sb strings.Builder

	sb.WriteString("DATA INSERTION GUIDE\n")
	sb.WriteString("====================\n\n")
	sb.WriteString(fmt.Sprintf("Tables: %d\n", len(tables)))
	sb.WriteString("Insert data in the order below; every table appears after the tables it references.\n\n")

	for i, name := range order {
		table := byName[name]
		if table == nil {
			continue
		}

		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, name))

		if deps := dedupe(table.DependsOn); len(deps) > 0 {
			sb.WriteString(fmt.Sprintf("   depends on: %s\n", strings.Join(deps, ", ")))
		}

		var required []string
		for _, col := range table.Columns {
			if col.Required() {
				required = append(required, col.Name)
			}
		}
		if len(required) > 0 {
			sb.WriteString(fmt.Sprintf("   required columns: %s\n", strings.Join(required, ", ")))
		}

		for _, uc := range table.UniqueConstraints {
			sb.WriteString(fmt.Sprintf("   unique: (%s)\n", strings.Join(uc.Columns, ", ")))
		}
		for _, cc := range table.CheckConstraints {
			sb.WriteString(fmt.Sprintf("   check: %s\n", cc.Definition))
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// GenerateSchemaDigest renders the denser schema overview: core tables ranked
// by how often they are referenced, the relationship list, and per-table
// detail enriched with the optional enhanced metadata. Does not need an
// insertion order, so it stays usable for cyclic schemas.
func GenerateSchemaDigest(tables []models.Table, info map[string]*models.TableInfo) string {
	refCounts := referenceCounts(tables)

	totalFKs := 0
	for _, t := range tables {
		totalFKs += len(t.ForeignKeys)
	}

	var sb strings.Builder

	sb.WriteString("# Schema Digest\n\n")
	sb.WriteString(fmt.Sprintf("%d tables, %d foreign keys\n\n", len(tables), totalFKs))

	writeCoreTables(&sb, tables, refCounts)
	writeRelationships(&sb, tables)
	writeTableDetails(&sb, tables, info)

	return sb.String()
}

// referenceCounts inverts the foreign keys: for each table, how many other
// tables point at it. Derived locally, no catalog round trip.
func referenceCounts(tables []models.Table) map[string]int {
	counts := make(map[string]int, len(tables))
	for _, t := range tables {
		seen := make(map[string]bool)
		for _, fk := range t.ForeignKeys {
			if fk.ToTable == t.Name || seen[fk.ToTable] {
				continue
			}
			seen[fk.ToTable] = true
			counts[fk.ToTable]++
		}
	}
	return counts
}

func writeCoreTables(sb *strings.Builder, tables []models.Table, refCounts map[string]int) {
	type coreTable struct {
		name string
		pk   []string
		refs int
	}

	var core []coreTable
	for _, t := range tables {
		if len(t.ForeignKeys) == 0 && refCounts[t.Name] == 0 {
			continue
		}
		core = append(core, coreTable{name: t.Name, pk: t.PrimaryKeys, refs: refCounts[t.Name]})
	}
	if len(core) == 0 {
		return
	}

	sort.SliceStable(core, func(i, j int) bool {
		if core[i].refs != core[j].refs {
			return core[i].refs > core[j].refs
		}
		return core[i].name < core[j].name
	})

	sb.WriteString("## Core tables\n\n")
	for _, ct := range core {
		pk := "none"
		if len(ct.pk) > 0 {
			pk = strings.Join(ct.pk, ", ")
		}
		sb.WriteString(fmt.Sprintf("- %s (PK: %s) referenced by %d table(s)\n", ct.name, pk, ct.refs))
	}
	sb.WriteString("\n")
}

func writeRelationships(sb *strings.Builder, tables []models.Table) {
	hasAny := false
	for _, t := range tables {
		if len(t.ForeignKeys) > 0 {
			hasAny = true
			break
		}
	}
	if !hasAny {
		return
	}

	sb.WriteString("## Relationships\n\n")
	for _, t := range tables {
		if len(t.ForeignKeys) == 0 {
			continue
		}
		refs := make([]string, 0, len(t.ForeignKeys))
		for _, fk := range t.ForeignKeys {
			refs = append(refs, fmt.Sprintf("%s (%s -> %s) [%s]", fk.ToTable, fk.FromColumn, fk.ToColumn, fk.DeleteRule))
		}
		sb.WriteString(fmt.Sprintf("- %s -> %s\n", t.Name, strings.Join(refs, ", ")))
	}
	sb.WriteString("\n")
}

func writeTableDetails(sb *strings.Builder, tables []models.Table, info map[string]*models.TableInfo) {
	sb.WriteString("## Tables\n\n")

	for _, t := range tables {
		sb.WriteString(fmt.Sprintf("### %s\n", t.Name))

		ti := info[t.Name]
		if ti != nil && ti.Comment != "" {
			sb.WriteString(ti.Comment + "\n")
		}

		if len(t.PrimaryKeys) > 0 {
			sb.WriteString(fmt.Sprintf("Primary key: %s\n", strings.Join(t.PrimaryKeys, ", ")))
		}

		for _, col := range t.Columns {
			line := fmt.Sprintf("- %s %s", col.Name, col.Type)
			if !col.Nullable {
				line += " NOT NULL"
			}
			if col.Default != nil {
				line += fmt.Sprintf(" default %s", *col.Default)
			}
			if ti != nil {
				if comment, ok := ti.ColumnComments[col.Name]; ok && comment != "" {
					line += fmt.Sprintf(" -- %s", comment)
				}
				if values := models.ParseEnumValues(ti.ColumnEnums[col.Name]); len(values) > 0 {
					line += fmt.Sprintf(" (values: %s)", strings.Join(values, ", "))
				}
			}
			sb.WriteString(line + "\n")
		}

		for _, uc := range t.UniqueConstraints {
			sb.WriteString(fmt.Sprintf("Unique: (%s)\n", strings.Join(uc.Columns, ", ")))
		}
		for _, cc := range t.CheckConstraints {
			sb.WriteString(fmt.Sprintf("Check: %s\n", cc.Definition))
		}

		if ti != nil {
			for _, trg := range ti.Triggers {
				sb.WriteString(fmt.Sprintf("Trigger %s: %s\n", trg.Name, trg.Definition))
			}
		}

		sb.WriteString("\n")
	}
}

func dedupe(names []string) []string {
	var out []string
	for _, n := range names {
		if !utils.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}
