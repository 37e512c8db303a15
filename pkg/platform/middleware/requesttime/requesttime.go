// Package requesttime pins one "now" per request so every timestamp and
// date-range check inside a request agrees.
package requesttime

import (
	"net/http"
	"time"

	"dqengine/pkg/requestcontext"
)

// Clock returns the current time. Tests replace it through New.
type Clock func() time.Time

// Middleware captures time.Now at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return New(time.Now)(next)
}

// New builds the middleware around clock.
func New(clock Clock) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), clock())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
