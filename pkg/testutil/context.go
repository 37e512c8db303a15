package testutil

import (
	"net/http"
	"time"

	"dqengine/pkg/requestcontext"
)

// WithRequestID sets the request ID the middleware would have assigned.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithRequestTime pins the request-scoped clock.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
