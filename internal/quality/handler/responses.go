package handler

import (
	"context"

	"dqengine/internal/quality/models"
	"dqengine/internal/quality/transform"
	"dqengine/pkg/requestcontext"
)

// envelope carries the fields every successful response shares.
type envelope struct {
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"requestId"`
}

func newEnvelope(ctx context.Context) envelope {
	return envelope{
		Success:   true,
		Timestamp: requestcontext.Now(ctx).UTC().Format(transform.TimestampLayout),
		RequestID: requestcontext.RequestID(ctx),
	}
}

// ValidateResponse is the response for POST /validate. The report fields are
// inlined next to the envelope.
type ValidateResponse struct {
	envelope
	*models.QualityReport
}

// CleanseResponse is the response for POST /cleanse.
type CleanseResponse struct {
	envelope
	CleansedData  models.Record         `json:"cleansedData"`
	QualityReport *models.QualityReport `json:"qualityReport"`
}

// EnrichResponse is the response for POST /enrich.
type EnrichResponse struct {
	envelope
	EnrichedData models.Record `json:"enrichedData"`
}

// BatchResponse is the response for POST /batch-check.
type BatchResponse struct {
	envelope
	Results []models.BatchResult `json:"results"`
	Summary models.BatchSummary  `json:"summary"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp string            `json:"timestamp"`
}
