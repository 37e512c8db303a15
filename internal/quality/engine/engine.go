// Package engine assembles the data-quality service from whichever stores are
// configured: Postgres when a database is given, in-memory otherwise, with an
// optional Redis tier in front of the rule store.
package engine

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"dqengine/internal/quality/metrics"
	"dqengine/internal/quality/rules"
	"dqengine/internal/quality/service"
	"dqengine/internal/quality/uniqueness"
	"dqengine/internal/quality/validator"
	"dqengine/pkg/platform/circuit"
)

// Deps are the collaborators an engine is built from. Every field is optional.
type Deps struct {
	DB      *sql.DB
	Redis   *redis.Client
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// RulesFile seeds the in-memory rule store. Ignored when DB is set.
	RulesFile    string
	RuleCacheTTL time.Duration
	MaxBatchSize int
	Concurrency  int

	// Circuit settings for the Postgres uniqueness querier. Zero values take
	// the breaker defaults.
	UniquenessFailureThreshold int
	UniquenessCooldown         time.Duration
}

// Engine is a ready-to-use data-quality service and its rule cache.
type Engine struct {
	Service *service.Service
	Rules   *rules.Cache
	Store   rules.Store
}

// New wires the stores, cache, validator and service.
func New(deps Deps) (*Engine, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := deps.RuleCacheTTL
	if ttl <= 0 {
		ttl = rules.DefaultTTL
	}

	var (
		store     rules.Store
		querier   uniqueness.Querier
		checkOpts []uniqueness.Option
	)
	if deps.DB != nil {
		store = rules.NewPostgresStore(deps.DB)
		querier = uniqueness.NewPostgresQuerier(deps.DB)
		checkOpts = append(checkOpts, uniqueness.WithBreaker(circuit.New("uniqueness",
			circuit.WithFailureThreshold(deps.UniquenessFailureThreshold),
			circuit.WithCooldown(deps.UniquenessCooldown),
		)))
	} else {
		mem := rules.NewInMemoryStore()
		if deps.RulesFile != "" {
			if err := mem.LoadFile(deps.RulesFile); err != nil {
				return nil, fmt.Errorf("load rules file: %w", err)
			}
		}
		store = mem
		querier = uniqueness.NewInMemoryIndex()
		logger.Info("using in-memory rule store and uniqueness index",
			"rules_file", deps.RulesFile,
		)
	}
	if deps.Redis != nil {
		store = rules.NewRedisStore(deps.Redis, store, ttl, logger)
	}

	cache := rules.NewCache(store,
		rules.WithTTL(ttl),
		rules.WithLogger(logger),
		rules.WithMetrics(deps.Metrics),
	)
	fields := validator.New(cache, uniqueness.NewChecker(querier, deps.Metrics, checkOpts...))
	svc := service.New(fields,
		service.WithLogger(logger),
		service.WithMetrics(deps.Metrics),
		service.WithConcurrency(deps.Concurrency),
		service.WithMaxBatchSize(deps.MaxBatchSize),
	)

	return &Engine{Service: svc, Rules: cache, Store: store}, nil
}
