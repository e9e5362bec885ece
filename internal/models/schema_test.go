package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnumValues(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{"native list", []string{"active", "inactive"}, []string{"active", "inactive"}},
		{"delimited string", []string{"{active,inactive}"}, []string{"active", "inactive"}},
		{"delimited with spaces and quotes", []string{`{"on hold", shipped}`}, []string{"on hold", "shipped"}},
		{"empty braces", []string{"{}"}, nil},
		{"nil", nil, nil},
		{"single plain value", []string{"active"}, []string{"active"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEnumValues(tt.values))
		})
	}
}

func TestColumnRequired(t *testing.T) {
	def := "0"

	assert.True(t, Column{Name: "id", Nullable: false}.Required())
	assert.False(t, Column{Name: "count", Nullable: false, Default: &def}.Required())
	assert.False(t, Column{Name: "note", Nullable: true}.Required())
	assert.False(t, Column{Name: "tag", Nullable: true, Default: &def}.Required())
}
