package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortDirection(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "DESC"},
		{"asc", "ASC"},
		{"  ASC ", "ASC"},
		{"desc", "DESC"},
		{"sideways", "DESC"},
		{"ASC; DROP TABLE projects;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, sortDirection(tt.input))
		})
	}
}

func TestProjectSortColumns(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  string
	}{
		{"empty uses default", "", "created_at"},
		{"column name", "sustainability_score", "sustainability_score"},
		{"json name", "sustainabilityScore", "sustainability_score"},
		{"trimmed", "  name ", "name"},
		{"unknown column", "metadata", "created_at"},
		{"case sensitive", "NAME", "created_at"},
		{"injection", "name; DROP TABLE projects", "created_at"},
		{"subquery", "id, (SELECT 1)", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, projectSort.column(tt.field))
		})
	}
}

func TestSortColumnsOrderBy(t *testing.T) {
	assert.Equal(t, "created_at DESC, id DESC", projectSort.orderBy("", ""))
	assert.Equal(t, "estimated_cost ASC, id ASC", projectSort.orderBy("estimatedCost", "asc"))
	assert.Equal(t, "updated_at DESC, id DESC", conversationSort.orderBy("name", "asc; --"))
}

func TestCamelCase(t *testing.T) {
	assert.Equal(t, "createdAt", camelCase("created_at"))
	assert.Equal(t, "name", camelCase("name"))
	assert.Equal(t, "sustainabilityScore", camelCase("sustainability_score"))
}
