// Package handler exposes the data-quality operations as JSON endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"dqengine/internal/quality/models"
	"dqengine/internal/quality/service"
	dErrors "dqengine/pkg/domain-errors"
	"dqengine/pkg/platform/httputil"
	"dqengine/pkg/requestcontext"
)

// Service defines the data-quality operations the handler serves.
type Service interface {
	Validate(ctx context.Context, entityType models.EntityType, rec models.Record) (*models.QualityReport, error)
	Cleanse(ctx context.Context, entityType models.EntityType, rec models.Record) (*service.CleanseResult, error)
	Enrich(ctx context.Context, rec models.Record) models.Record
	BatchCheck(ctx context.Context, entityType models.EntityType, records []models.Record) (*models.BatchReport, error)
}

// RuleCache is the invalidation surface of the rule cache.
type RuleCache interface {
	Invalidate(ctx context.Context, table, column string) error
	InvalidateAll()
}

// Handler wires the data-quality endpoints to the service.
type Handler struct {
	service Service
	rules   RuleCache
	logger  *slog.Logger
}

// New constructs a data-quality handler. rules may be nil, in which case the
// cache invalidation endpoint is not mounted.
func New(service Service, rules RuleCache, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		rules:   rules,
		logger:  logger,
	}
}

// Register mounts the data-quality endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/v1/data-quality", func(r chi.Router) {
		r.Post("/validate", h.HandleValidate)
		r.Post("/cleanse", h.HandleCleanse)
		r.Post("/enrich", h.HandleEnrich)
		r.Post("/batch-check", h.HandleBatchCheck)
		if h.rules != nil {
			r.Delete("/rules/cache", h.HandleInvalidateRules)
		}
	})
}

// HandleValidate handles POST /api/v1/data-quality/validate.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[RecordRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	report, err := h.service.Validate(ctx, req.ParsedEntityType(), req.Data)
	if err != nil {
		h.fail(ctx, w, "validation failed", err)
		return
	}

	h.logger.InfoContext(ctx, "record validated",
		"request_id", requestID,
		"entity_type", req.EntityType,
		"score", report.Score,
		"badge", report.Badge,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, ValidateResponse{
		envelope:      newEnvelope(ctx),
		QualityReport: report,
	})
}

// HandleCleanse handles POST /api/v1/data-quality/cleanse.
func (h *Handler) HandleCleanse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RecordRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Cleanse(ctx, req.ParsedEntityType(), req.Data)
	if err != nil {
		h.fail(ctx, w, "cleansing failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, CleanseResponse{
		envelope:      newEnvelope(ctx),
		CleansedData:  result.Data,
		QualityReport: result.Report,
	})
}

// HandleEnrich handles POST /api/v1/data-quality/enrich.
func (h *Handler) HandleEnrich(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RecordRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, EnrichResponse{
		envelope:     newEnvelope(ctx),
		EnrichedData: h.service.Enrich(ctx, req.Data),
	})
}

// HandleBatchCheck handles POST /api/v1/data-quality/batch-check.
func (h *Handler) HandleBatchCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	report, err := h.service.BatchCheck(ctx, req.ParsedEntityType(), req.Records)
	if err != nil {
		h.fail(ctx, w, "batch check failed", err)
		return
	}

	h.logger.InfoContext(ctx, "batch checked",
		"request_id", requestID,
		"entity_type", req.EntityType,
		"records", report.Summary.TotalRecords,
		"passed", report.Summary.Passed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, BatchResponse{
		envelope: newEnvelope(ctx),
		Results:  report.Results,
		Summary:  report.Summary,
	})
}

// HandleInvalidateRules handles DELETE /api/v1/data-quality/rules/cache.
// With table and column query parameters it drops that entry, with neither
// it drops every entry.
func (h *Handler) HandleInvalidateRules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	table := strings.TrimSpace(r.URL.Query().Get("table"))
	column := strings.TrimSpace(r.URL.Query().Get("column"))

	switch {
	case table == "" && column == "":
		h.rules.InvalidateAll()
	case table == "" || column == "":
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "table and column must be given together"))
		return
	default:
		if err := h.rules.Invalidate(ctx, table, column); err != nil {
			h.fail(ctx, w, "rule cache invalidation failed", err)
			return
		}
	}

	h.logger.InfoContext(ctx, "rule cache invalidated",
		"request_id", requestID,
		"table", table,
		"column", column,
	)
	w.WriteHeader(http.StatusNoContent)
}

// fail logs err at a level matching its code and writes the error response.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		h.logger.WarnContext(ctx, msg, attrs...)
	default:
		h.logger.ErrorContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
