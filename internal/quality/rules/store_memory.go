package rules

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"dqengine/internal/quality/models"
)

// InMemoryStore keeps rule rows in process. It backs the CLI and deployments
// without a database, and is seeded from YAML.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []models.RuleRecord
	nextID  int64
}

// NewInMemoryStore creates an empty in-memory rule store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1}
}

// seedFile is the YAML layout accepted by LoadYAML:
//
//	rules:
//	  - table: citizens
//	    column: email
//	    type: regex
//	    value: {pattern: "^[^@]+@[^@]+$"}
//	    message: Email is invalid
type seedFile struct {
	Rules []models.RuleRecord `yaml:"rules"`
}

// LoadYAML appends the rules listed in r, in file order.
func (s *InMemoryStore) LoadYAML(r io.Reader) error {
	var seed seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode rule seed: %w", err)
	}
	for i, rec := range seed.Rules {
		if rec.TableName == "" || rec.ColumnName == "" || rec.RuleType == "" {
			return fmt.Errorf("rule seed entry %d: table, column and type are required", i)
		}
		s.Add(rec)
	}
	return nil
}

// LoadFile is LoadYAML over the file at path.
func (s *InMemoryStore) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open rule seed: %w", err)
	}
	defer f.Close()
	return s.LoadYAML(f)
}

// Add stores rec, assigning the next id when rec has none, and returns the id.
func (s *InMemoryStore) Add(rec models.RuleRecord) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == 0 {
		rec.ID = s.nextID
	}
	if rec.ID >= s.nextID {
		s.nextID = rec.ID + 1
	}
	s.records = append(s.records, rec)
	return rec.ID
}

// ListRules returns the rows for (table, column) ordered by id.
func (s *InMemoryStore) ListRules(_ context.Context, table, column string) ([]models.RuleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.RuleRecord
	for _, rec := range s.records {
		if rec.TableName == table && rec.ColumnName == column {
			out = append(out, rec)
		}
	}
	slices.SortStableFunc(out, func(a, b models.RuleRecord) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out, nil
}
