package model

import "errors"

// Sentinel errors shared across the engine. Components wrap these with
// fmt.Errorf("...: %w", ...) so callers can match with errors.Is.
var (
	// ErrInvalidInput marks empty or malformed text passed to embedding or
	// extraction. Never silently coerced.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch marks a similarity computation across vectors of
	// different lengths. Fatal to that comparison, never padded or truncated.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrExtractionFailure marks LLM output that could not be obtained or
	// parsed. Recovered locally via the keyword fallback; only surfaced when
	// the fallback also fails.
	ErrExtractionFailure = errors.New("extraction failure")

	// ErrSchemaViolation marks an override or extracted field outside the
	// defined schema for its version. Rejected at assembly time, not stored.
	ErrSchemaViolation = errors.New("schema violation")

	// ErrUpstreamUnavailable marks an unreachable or rate-limited backend
	// after bounded retries.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
