package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the data-quality engine.
type Metrics struct {
	// Rule cache lookups by result: "hit", "miss"
	RuleCacheLookups *prometheus.CounterVec

	// Store failures absorbed by the rule cache
	RuleLoadFailures prometheus.Counter

	UniquenessQueryDuration prometheus.Histogram

	// Uniqueness checks refused while the querier circuit was open
	UniquenessRejected prometheus.Counter

	// Quality reports by entity type and badge
	Reports *prometheus.CounterVec

	OperationDuration *prometheus.HistogramVec

	BatchRecords prometheus.Histogram
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the engine metrics on reg. Tests pass a fresh registry so
// repeated construction does not panic on duplicate registration.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RuleCacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dq_rule_cache_lookups_total",
			Help: "Rule cache lookups by result",
		}, []string{"result"}),

		RuleLoadFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "dq_rule_load_failures_total",
			Help: "Rule store queries that failed and degraded to an empty rule list",
		}),

		UniquenessQueryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dq_uniqueness_query_duration_seconds",
			Help:    "Duration of uniqueness existence queries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		UniquenessRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "dq_uniqueness_rejected_total",
			Help: "Uniqueness checks refused without a query because the circuit was open",
		}),

		Reports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dq_reports_total",
			Help: "Quality reports produced by entity type and badge",
		}, []string{"entity_type", "badge"}),

		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dq_operation_duration_seconds",
			Help:    "Duration of engine operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}), // operation: "validate", "cleanse", "enrich", "batch_check"

		BatchRecords: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dq_batch_records",
			Help:    "Number of records per batch check",
			Buckets: prometheus.ExponentialBuckets(1, 4, 6),
		}),
	}
}

func (m *Metrics) RecordCacheHit() {
	if m != nil {
		m.RuleCacheLookups.WithLabelValues("hit").Inc()
	}
}

func (m *Metrics) RecordCacheMiss() {
	if m != nil {
		m.RuleCacheLookups.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) IncrementRuleLoadFailures() {
	if m != nil {
		m.RuleLoadFailures.Inc()
	}
}

// ObserveUniquenessQuery records the duration of one existence query.
func (m *Metrics) ObserveUniquenessQuery(d time.Duration) {
	if m != nil {
		m.UniquenessQueryDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementUniquenessRejected() {
	if m != nil {
		m.UniquenessRejected.Inc()
	}
}

// IncrementReport records one produced quality report.
func (m *Metrics) IncrementReport(entityType, badge string) {
	if m != nil {
		m.Reports.WithLabelValues(entityType, badge).Inc()
	}
}

func (m *Metrics) ObserveOperation(operation string, d time.Duration) {
	if m != nil {
		m.OperationDuration.WithLabelValues(operation).Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveBatchSize(n int) {
	if m != nil {
		m.BatchRecords.Observe(float64(n))
	}
}
