package uniqueness

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PostgresQuerier runs bounded existence queries against the entity tables.
type PostgresQuerier struct {
	db *sql.DB
}

// NewPostgresQuerier constructs a PostgreSQL-backed querier.
func NewPostgresQuerier(db *sql.DB) *PostgresQuerier {
	return &PostgresQuerier{db: db}
}

func (q *PostgresQuerier) Exists(ctx context.Context, table, column, value string) (bool, error) {
	if !Allowed(table, column) {
		return false, fmt.Errorf("uniqueness query on %q.%q is not allow-listed", table, column)
	}
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE %s = $1 LIMIT 1",
		pgx.Identifier{table}.Sanitize(),
		pgx.Identifier{column}.Sanitize(),
	)

	var one int
	err := q.db.QueryRowContext(ctx, query, value).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists query: %w", err)
	}
	return true, nil
}
