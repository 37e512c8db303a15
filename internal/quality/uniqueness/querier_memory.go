package uniqueness

import (
	"context"
	"sync"
)

// InMemoryIndex holds known values per (table, column). It backs the CLI and
// deployments without a database.
type InMemoryIndex struct {
	mu     sync.RWMutex
	values map[string]map[string]struct{}
}

// NewInMemoryIndex creates an empty index.
func NewInMemoryIndex() *InMemoryIndex {
	return &InMemoryIndex{values: make(map[string]map[string]struct{})}
}

// Add records value as present in table.column.
func (i *InMemoryIndex) Add(table, column, value string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	key := table + ":" + column
	set, ok := i.values[key]
	if !ok {
		set = make(map[string]struct{})
		i.values[key] = set
	}
	set[value] = struct{}{}
}

func (i *InMemoryIndex) Exists(_ context.Context, table, column, value string) (bool, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	_, ok := i.values[table+":"+column][value]
	return ok, nil
}
