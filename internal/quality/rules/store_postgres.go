package rules

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"dqengine/internal/quality/models"
)

const listRulesQuery = `
	SELECT id, table_name, column_name, rule_type, rule_value, error_message
	FROM data_quality_rules
	WHERE table_name = $1 AND column_name = $2
	ORDER BY id ASC
`

const insertRuleQuery = `
	INSERT INTO data_quality_rules (table_name, column_name, rule_type, rule_value, error_message)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id
`

// PostgresStore reads rule rows from the data_quality_rules table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed rule store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListRules(ctx context.Context, table, column string) ([]models.RuleRecord, error) {
	rows, err := s.db.QueryContext(ctx, listRulesQuery, table, column)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	var out []models.RuleRecord
	for rows.Next() {
		var (
			rec     models.RuleRecord
			value   []byte
			message sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.TableName, &rec.ColumnName, &rec.RuleType, &value, &message); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		if len(value) > 0 {
			if err := json.Unmarshal(value, &rec.Value); err != nil {
				return nil, fmt.Errorf("decode rule %d value: %w", rec.ID, err)
			}
		}
		rec.Message = message.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return out, nil
}

// Create inserts a rule row and returns its id.
func (s *PostgresStore) Create(ctx context.Context, rec models.RuleRecord) (int64, error) {
	// jsonb is sent as text; lib/pq would encode []byte as bytea.
	var value sql.NullString
	if rec.Value != nil {
		b, err := json.Marshal(rec.Value)
		if err != nil {
			return 0, fmt.Errorf("encode rule value: %w", err)
		}
		value = sql.NullString{String: string(b), Valid: true}
	}
	message := sql.NullString{String: rec.Message, Valid: rec.Message != ""}

	var id int64
	err := s.db.QueryRowContext(ctx, insertRuleQuery,
		rec.TableName, rec.ColumnName, rec.RuleType, value, message,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create rule: %w", err)
	}
	return id, nil
}
