package api

import (
	"errors"
	"fmt"
)

// Common errors returned by the monitoring API client.
var (
	// ErrNoToken indicates no API token was configured.
	ErrNoToken = errors.New("no API token configured")

	// ErrAuthError indicates an authentication error (missing/invalid token).
	ErrAuthError = errors.New("monitoring API authentication error")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("monitoring API rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with monitoring API")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from monitoring API")
)

// APIError represents a non-200 response from the monitoring API.
type APIError struct {
	StatusCode int
	Message    string
	ServerID   string // For context in server-scoped errors
}

func (e *APIError) Error() string {
	if e.ServerID != "" {
		return fmt.Sprintf("monitoring API error (status %d): %s (server: %s)", e.StatusCode, e.Message, e.ServerID)
	}
	return fmt.Sprintf("monitoring API error (status %d): %s", e.StatusCode, e.Message)
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthError) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
