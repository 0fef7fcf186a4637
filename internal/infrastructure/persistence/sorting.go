package persistence

import (
	"strings"
)

// sortColumns whitelists the columns a listing may be ordered by. Callers
// may name a column either by its database name or by its camelCase JSON name.
type sortColumns struct {
	allowed  map[string]string
	fallback string
}

func newSortColumns(fallback string, columns ...string) sortColumns {
	allowed := make(map[string]string, len(columns)*2)
	for _, col := range columns {
		allowed[col] = col
		allowed[camelCase(col)] = col
	}
	return sortColumns{allowed: allowed, fallback: fallback}
}

var (
	projectSort      = newSortColumns("created_at", "created_at", "updated_at", "name", "status", "estimated_cost", "sustainability_score")
	conversationSort = newSortColumns("updated_at", "created_at", "updated_at")
)

// column resolves field against the whitelist, falling back to the default
// for anything unknown.
func (s sortColumns) column(field string) string {
	if col, ok := s.allowed[strings.TrimSpace(field)]; ok {
		return col
	}
	return s.fallback
}

// orderBy renders an ORDER BY clause with id as the tie-breaker so that
// offset pagination is stable across equal sort keys.
func (s sortColumns) orderBy(field, dir string) string {
	d := sortDirection(dir)
	return s.column(field) + " " + d + ", id " + d
}

// sortDirection accepts asc in any case; everything else is DESC
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

func camelCase(col string) string {
	parts := strings.Split(col, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
