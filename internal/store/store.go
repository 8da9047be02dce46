package store

import (
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// buildUpdateClause creates the SET clause for ON CONFLICT DO UPDATE
// e.g., "email = EXCLUDED.email, first_name = EXCLUDED.first_name, ..."
func buildUpdateClause(fields map[string]any, exclude ...string) string {
	skip := make(map[string]bool, len(exclude))
	for _, field := range exclude {
		skip[field] = true
	}

	columns := make([]string, 0, len(fields))
	for field := range fields {
		if !skip[field] {
			columns = append(columns, field)
		}
	}
	sort.Strings(columns)

	clauses := make([]string, 0, len(columns))
	for _, column := range columns {
		clauses = append(clauses, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
	}
	return strings.Join(clauses, ", ")
}
