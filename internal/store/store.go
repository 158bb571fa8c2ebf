package store

import (
	sq "github.com/Masterminds/squirrel"
)

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// nullable maps "" to NULL so empty optional fields don't collide with
// uniqueness or reference constraints.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
