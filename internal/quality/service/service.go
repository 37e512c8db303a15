// Package service implements the data-quality operations: validate, cleanse,
// enrich and batch check.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"dqengine/internal/quality/aggregate"
	"dqengine/internal/quality/anomaly"
	"dqengine/internal/quality/metrics"
	"dqengine/internal/quality/models"
	"dqengine/internal/quality/transform"
	"dqengine/internal/quality/validator"
	dErrors "dqengine/pkg/domain-errors"
	"dqengine/pkg/platform/sentinel"
	"dqengine/pkg/requestcontext"
)

const (
	// DefaultConcurrency bounds concurrent field validations per record and
	// record validations per batch.
	DefaultConcurrency = 8
	// DefaultMaxBatchSize is the largest batch BatchCheck accepts.
	DefaultMaxBatchSize = 1000

	// skippedField is never validated.
	skippedField = "biometric_data"
)

// FieldValidator scores one field. *validator.Validator implements it.
type FieldValidator interface {
	ValidateField(ctx context.Context, field string, value any, fc validator.FieldContext) (models.FieldOutcome, error)
}

// Service runs the data-quality operations. It holds no per-request state
// and is safe for concurrent use.
type Service struct {
	fields       FieldValidator
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	concurrency  int
	maxBatchSize int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithConcurrency bounds how many fields of a record, and how many records of
// a batch, are validated at once. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithMaxBatchSize sets the largest batch BatchCheck accepts. Values below 1
// are ignored.
func WithMaxBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

// New constructs a Service.
func New(fields FieldValidator, opts ...Option) *Service {
	s := &Service{
		fields:       fields,
		logger:       slog.Default(),
		tracer:       otel.Tracer("dqengine/internal/quality/service"),
		concurrency:  DefaultConcurrency,
		maxBatchSize: DefaultMaxBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CleanseResult is the cleansed record with the report computed over it.
type CleanseResult struct {
	Data   models.Record
	Report *models.QualityReport
}

// Validate scores every field of rec and returns the record's report,
// including per-field outcomes. A uniqueness store failure is returned as a
// CodeUnavailable error rather than as an invalid report.
func (s *Service) Validate(ctx context.Context, entityType models.EntityType, rec models.Record) (*models.QualityReport, error) {
	ctx, span := s.tracer.Start(ctx, "quality.Validate", trace.WithAttributes(
		attribute.String("entity_type", string(entityType)),
		attribute.Int("field_count", len(rec)),
	))
	defer span.End()
	defer s.observe("validate", time.Now())

	report, err := s.assess(ctx, entityType, rec, true)
	if err != nil {
		return nil, s.fail(span, err)
	}
	return report, nil
}

// Cleanse normalizes rec and validates the cleansed copy. rec is not modified.
func (s *Service) Cleanse(ctx context.Context, entityType models.EntityType, rec models.Record) (*CleanseResult, error) {
	ctx, span := s.tracer.Start(ctx, "quality.Cleanse", trace.WithAttributes(
		attribute.String("entity_type", string(entityType)),
	))
	defer span.End()
	defer s.observe("cleanse", time.Now())

	cleansed := transform.Cleanse(rec)
	report, err := s.assess(ctx, entityType, cleansed, false)
	if err != nil {
		return nil, s.fail(span, err)
	}
	return &CleanseResult{Data: cleansed, Report: report}, nil
}

// Enrich cleanses rec and adds derived fields. It performs no I/O.
func (s *Service) Enrich(ctx context.Context, rec models.Record) models.Record {
	_, span := s.tracer.Start(ctx, "quality.Enrich")
	defer span.End()
	defer s.observe("enrich", time.Now())

	return transform.Enrich(transform.Cleanse(rec), requestcontext.Now(ctx))
}

// BatchCheck cleanses and validates every record and summarizes the batch.
// Records are processed concurrently; results keep input order. All records
// share one "now". The first uniqueness failure aborts the batch.
func (s *Service) BatchCheck(ctx context.Context, entityType models.EntityType, records []models.Record) (*models.BatchReport, error) {
	ctx, span := s.tracer.Start(ctx, "quality.BatchCheck", trace.WithAttributes(
		attribute.String("entity_type", string(entityType)),
		attribute.Int("record_count", len(records)),
	))
	defer span.End()
	defer s.observe("batch_check", time.Now())

	if len(records) > s.maxBatchSize {
		err := dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("batch of %d records exceeds the maximum of %d", len(records), s.maxBatchSize))
		return nil, s.fail(span, err)
	}
	s.metrics.ObserveBatchSize(len(records))

	ctx = requestcontext.WithTime(ctx, requestcontext.Now(ctx))
	results := make([]models.BatchResult, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, rec := range records {
		g.Go(func() error {
			cleansed := transform.Cleanse(rec)
			report, err := s.assess(gctx, entityType, cleansed, false)
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			results[i] = models.BatchResult{
				Index:        i,
				RecordID:     RecordID(rec),
				CleansedData: cleansed,
				Report:       *report,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.fail(span, err)
	}

	return &models.BatchReport{
		Results: results,
		Summary: aggregate.Summarize(results),
	}, nil
}

// RecordID picks the identifier a batch result is reported under: the first
// non-empty of oid, national_id and registration_number, or nil.
func RecordID(rec models.Record) any {
	for _, key := range []string{"oid", "national_id", "registration_number"} {
		switch v := rec[key].(type) {
		case nil:
		case string:
			if v != "" {
				return v
			}
		default:
			return v
		}
	}
	return nil
}

// assess validates each field of rec concurrently, then merges the outcomes
// in sorted field order. The record score is the lowest field score.
func (s *Service) assess(ctx context.Context, entityType models.EntityType, rec models.Record, withFields bool) (*models.QualityReport, error) {
	fields := make([]string, 0, len(rec))
	for field := range rec {
		if field != skippedField {
			fields = append(fields, field)
		}
	}
	slices.Sort(fields)

	fc := validator.FieldContext{EntityType: entityType, StateCode: transform.StateCode(rec)}
	outcomes := make([]models.FieldOutcome, len(fields))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, field := range fields {
		g.Go(func() error {
			out, err := s.fields.ValidateField(gctx, field, rec[field], fc)
			if err != nil {
				return fmt.Errorf("validate field %s: %w", field, err)
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &models.QualityReport{
		Score:     1,
		Issues:    []string{},
		Anomalies: anomaly.Detect(rec, requestcontext.Now(ctx)),
	}
	if withFields {
		report.Fields = make(map[string]models.FieldOutcome, len(fields))
	}
	for i, field := range fields {
		out := outcomes[i]
		report.Issues = append(report.Issues, out.Issues...)
		report.Score = min(report.Score, out.Score)
		if withFields {
			report.Fields[field] = out
		}
	}
	report.Valid = len(report.Issues) == 0
	report.Badge = models.BadgeFor(report.Score)

	s.metrics.IncrementReport(entityLabel(entityType), string(report.Badge))
	return report, nil
}

// entityLabel keeps the metric label set bounded for caller-supplied types.
func entityLabel(entityType models.EntityType) string {
	if table, ok := validator.TableFor(entityType); ok {
		return table
	}
	return "unknown"
}

// fail records err on the span and translates infrastructure failures into
// domain errors.
func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "uniqueness check unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "data quality check failed")
	}
}

func (s *Service) observe(operation string, start time.Time) {
	s.metrics.ObserveOperation(operation, time.Since(start))
}
