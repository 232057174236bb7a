package usecase

import "errors"

var (
	// ErrInvalidInput marks malformed or incomplete requests. Detected
	// before any external call; never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDirectoryLookup marks a failed player directory query during
	// identifier resolution. Falling back to raw ids here would silently
	// degrade every prompt, so the pipeline fails fast instead.
	ErrDirectoryLookup = errors.New("player directory lookup failed")

	// ErrMissingCredentials means the analysis service API key is not
	// configured. A deployment problem, not a transient one.
	ErrMissingCredentials = errors.New("analysis service credentials missing")

	// ErrAnalysisUnauthorized means the analysis service rejected the
	// configured credentials.
	ErrAnalysisUnauthorized = errors.New("analysis service rejected credentials")

	// ErrAnalysisRateLimited means the analysis service throttled the
	// request; safe to retry after a delay.
	ErrAnalysisRateLimited = errors.New("analysis service rate limited")

	// ErrAnalysisBadRequest means the analysis service rejected the
	// request shape, e.g. a prompt over the token budget. Indicates a
	// prompt assembly defect rather than a transient condition.
	ErrAnalysisBadRequest = errors.New("analysis service rejected request")

	// ErrAnalysisEmptyResponse means the service answered with zero
	// candidates. Treated as a service-side anomaly; retryable.
	ErrAnalysisEmptyResponse = errors.New("analysis service returned no candidates")

	// ErrTransport is the generic network/timeout failure for either
	// external collaborator, and the mapping for any upstream status
	// this service does not recognize.
	ErrTransport = errors.New("upstream transport failure")
)
