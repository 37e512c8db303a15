// Package uniqueness detects duplicate values in entity tables.
//
// Only the (table, column) pairs on a fixed allow-list are ever queried.
// Identifiers reach SQL text only after passing that list, so a rule
// configured against any other column cannot inject into a query; such rules
// pass silently.
package uniqueness

import (
	"context"
	"fmt"
	"time"

	"dqengine/internal/quality/metrics"
	"dqengine/pkg/platform/circuit"
	"dqengine/pkg/platform/sentinel"
)

// DefaultIssue is reported when a value already exists.
const DefaultIssue = "Value already exists"

var allowList = map[string]map[string]struct{}{
	"citizens": {
		"national_id":  {},
		"phone_number": {},
		"email":        {},
	},
	"businesses": {
		"registration_number": {},
		"email":               {},
	},
}

// Allowed reports whether (table, column) may be queried.
func Allowed(table, column string) bool {
	cols, ok := allowList[table]
	if !ok {
		return false
	}
	_, ok = cols[column]
	return ok
}

// Querier answers whether a value is already present in table.column.
// Implementations bind value as a query parameter.
type Querier interface {
	Exists(ctx context.Context, table, column, value string) (bool, error)
}

// Result is the outcome of a uniqueness check.
type Result struct {
	Valid bool
	Issue string
}

// Checker gates uniqueness queries behind the allow-list.
type Checker struct {
	querier Querier
	metrics *metrics.Metrics
	breaker *circuit.Breaker
}

type Option func(*Checker)

// WithBreaker rejects queries while b is open. Rejected checks fail with
// sentinel.ErrUnavailable just like a failed query.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Checker) {
		c.breaker = b
	}
}

// NewChecker constructs a Checker. metrics may be nil.
func NewChecker(querier Querier, m *metrics.Metrics, opts ...Option) *Checker {
	c := &Checker{querier: querier, metrics: m}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckUnique returns invalid with DefaultIssue when value already exists.
// Pairs outside the allow-list are valid without any query. Store failures
// are returned wrapped with sentinel.ErrUnavailable; they are not recovered here.
func (c *Checker) CheckUnique(ctx context.Context, table, column, value string) (Result, error) {
	if !Allowed(table, column) {
		return Result{Valid: true}, nil
	}

	if c.breaker != nil && !c.breaker.Allow() {
		c.metrics.IncrementUniquenessRejected()
		return Result{}, fmt.Errorf("check uniqueness of %s.%s: %w: circuit %s open",
			table, column, sentinel.ErrUnavailable, c.breaker.Name())
	}

	start := time.Now()
	exists, err := c.querier.Exists(ctx, table, column, value)
	c.metrics.ObserveUniquenessQuery(time.Since(start))
	c.record(ctx, err)
	if err != nil {
		return Result{}, fmt.Errorf("check uniqueness of %s.%s: %w: %w", table, column, sentinel.ErrUnavailable, err)
	}
	if exists {
		return Result{Valid: false, Issue: DefaultIssue}, nil
	}
	return Result{Valid: true}, nil
}

// record feeds the breaker. Cancellation by the caller says nothing about
// the store's health and is not counted.
func (c *Checker) record(ctx context.Context, err error) {
	if c.breaker == nil {
		return
	}
	if ctx.Err() != nil {
		c.breaker.Abandon()
		return
	}
	if err != nil {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}
