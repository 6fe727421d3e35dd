package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried by APIError. Callers branch on these instead of
// provider-specific error shapes.
const (
	CodeRateLimited      = "RATE_LIMITED"
	CodeLocationNotFound = "LOCATION_NOT_FOUND"
	CodePollTimeout      = "POLL_TIMEOUT"
	CodeBadResponse      = "BAD_RESPONSE"
	CodeUpstream         = "UPSTREAM_ERROR"
)

// APIError is the uniform error type wrapping every transport and provider
// failure below the aggregator.
type APIError struct {
	Provider   string
	Message    string
	StatusCode int
	Code       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Provider, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Retryable reports whether the failure is transient. Client errors are
// structural and never retried; 429 and server-class failures are.
func (e *APIError) Retryable() bool {
	if e.Code == CodeRateLimited || e.Code == CodeLocationNotFound || e.Code == CodePollTimeout {
		return false
	}
	if e.StatusCode == 0 || e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return e.StatusCode >= 500
}

// IsRateLimited reports whether err is a local rate-limit denial.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeRateLimited
}

// IsNotFound reports whether err is an identifier-resolution failure.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeLocationNotFound
}
