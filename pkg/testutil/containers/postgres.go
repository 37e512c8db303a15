//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq" // postgres driver
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Schema is the subset of the registry schema the engine reads: the rule
// table and the entity tables uniqueness checks query.
const Schema = `
CREATE TABLE IF NOT EXISTS data_quality_rules (
	id            BIGSERIAL PRIMARY KEY,
	table_name    TEXT NOT NULL,
	column_name   TEXT NOT NULL,
	rule_type     TEXT NOT NULL,
	rule_value    JSONB,
	error_message TEXT
);
CREATE TABLE IF NOT EXISTS citizens (
	id           BIGSERIAL PRIMARY KEY,
	national_id  TEXT,
	phone_number TEXT,
	email        TEXT
);
CREATE TABLE IF NOT EXISTS businesses (
	id                  BIGSERIAL PRIMARY KEY,
	registration_number TEXT,
	email               TEXT
);
`

// PostgresContainer wraps a testcontainers Postgres instance.
type PostgresContainer struct {
	Container *tcpostgres.PostgresContainer
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts Postgres, applies Schema and terminates the
// container when t ends.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("dq"),
		tcpostgres.WithUsername("dq"),
		tcpostgres.WithPassword("dq"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to open postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	return &PostgresContainer{Container: container, DSN: dsn, DB: db}
}

// Truncate empties the given tables and resets their sequences.
func (p *PostgresContainer) Truncate(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := p.DB.ExecContext(ctx, "TRUNCATE "+table+" RESTART IDENTITY"); err != nil {
			return err
		}
	}
	return nil
}
