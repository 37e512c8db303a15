package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and queriers return these
// (wrapped with %w) so the service layer can translate them into domain errors.
//
//   - ErrNotFound: the requested row or key does not exist
//   - ErrUnavailable: the backing store could not answer (timeout, connection error)
//
// Rule violations are never errors; they are reported as issues in a quality report.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
