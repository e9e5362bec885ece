package models

import "strings"

type Column struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Nullable    bool     `json:"nullable"`
	Default     *string  `json:"default,omitempty"`
	Constraints []string `json:"constraints,omitempty"`
}

// Required reports whether an INSERT must supply a value for this column.
func (c Column) Required() bool {
	return !c.Nullable && c.Default == nil
}

type ForeignKey struct {
	ConstraintName string `json:"constraint_name"`
	FromColumn     string `json:"column"`
	ToTable        string `json:"referenced_table"`
	ToColumn       string `json:"referenced_column"`
	UpdateRule     string `json:"update_rule"`
	DeleteRule     string `json:"delete_rule"`
}

type UniqueConstraint struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

type CheckConstraint struct {
	Name       string `json:"name"`
	Definition string `json:"definition"`
}

type Table struct {
	Name              string             `json:"name"`
	Schema            string             `json:"schema"`
	Columns           []Column           `json:"columns"`
	PrimaryKeys       []string           `json:"primary_keys"`
	ForeignKeys       []ForeignKey       `json:"foreign_keys"`
	UniqueConstraints []UniqueConstraint `json:"unique_constraints"`
	CheckConstraints  []CheckConstraint  `json:"check_constraints"`
	// DependsOn lists the referenced table of every foreign key, in foreign
	// key order. A table referenced by two columns appears twice.
	DependsOn []string `json:"depends_on"`
}

// Trigger is a row trigger attached to a table, reported verbatim.
type Trigger struct {
	Name       string `json:"name"`
	Definition string `json:"definition"`
}

// TableInfo carries the optional enhanced catalog metadata for one table:
// comments, triggers and enum labels. Absent entries are simply empty.
type TableInfo struct {
	Comment        string              `json:"comment,omitempty"`
	ColumnComments map[string]string   `json:"column_comments,omitempty"`
	ColumnEnums    map[string][]string `json:"column_enums,omitempty"`
	Triggers       []Trigger           `json:"triggers,omitempty"`
}

// ParseEnumValues normalizes an enum value set. The catalog may hand back the
// labels as a native list or as a single brace-delimited string such as
// "{active,inactive,banned}"; both forms normalize to the same slice.
func ParseEnumValues(values []string) []string {
	if len(values) == 1 && strings.HasPrefix(values[0], "{") && strings.HasSuffix(values[0], "}") {
		inner := strings.TrimSuffix(strings.TrimPrefix(values[0], "{"), "}")
		if inner == "" {
			return nil
		}
		parts := strings.Split(inner, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.Trim(strings.TrimSpace(p), `"`))
		}
		return out
	}
	return values
}
