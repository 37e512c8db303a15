package handler

import (
	"strings"

	"dqengine/internal/quality/models"
	dErrors "dqengine/pkg/domain-errors"
)

const missingRecord = "Missing data or entityType"

// RecordRequest is the body of the validate, cleanse and enrich endpoints.
type RecordRequest struct {
	EntityType string        `json:"entityType"`
	Data       models.Record `json:"data"`
}

// Validate implements httputil.Validatable.
func (r *RecordRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.EntityType = strings.TrimSpace(r.EntityType)
	if r.Data == nil || r.EntityType == "" {
		return dErrors.New(dErrors.CodeBadRequest, missingRecord)
	}
	return nil
}

// ParsedEntityType returns the entity type as sent. Unrecognized types are
// accepted and validated with built-in checks only.
func (r *RecordRequest) ParsedEntityType() models.EntityType {
	return models.EntityType(r.EntityType)
}

// BatchRequest is the body of the batch-check endpoint.
type BatchRequest struct {
	EntityType string          `json:"entityType"`
	Records    []models.Record `json:"records"`
}

// Validate implements httputil.Validatable. A null element is treated as an
// empty record.
func (r *BatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.EntityType = strings.TrimSpace(r.EntityType)
	if r.Records == nil || r.EntityType == "" {
		return dErrors.New(dErrors.CodeBadRequest, "records array and entityType are required")
	}
	for i, rec := range r.Records {
		if rec == nil {
			r.Records[i] = models.Record{}
		}
	}
	return nil
}

// ParsedEntityType returns the entity type as sent.
func (r *BatchRequest) ParsedEntityType() models.EntityType {
	return models.EntityType(r.EntityType)
}
