package catalog

import (
	"errors"
	"fmt"
)

// ErrorKind classifies catalog API failures. Callers render different
// guidance per kind, so the client must never collapse them into one
// generic failure.
type ErrorKind string

const (
	ErrNotFound          ErrorKind = "not_found"          // 404
	ErrServerError       ErrorKind = "server_error"       // 5xx
	ErrRateLimited       ErrorKind = "rate_limited"       // 429
	ErrTransportFailure  ErrorKind = "transport_failure"  // connection-level failure
	ErrMalformedResponse ErrorKind = "malformed_response" // 2xx but wrong shape
	ErrOtherHTTP         ErrorKind = "http_error"         // any other non-2xx
)

// APIError is the single error type surfaced by the catalog client.
type APIError struct {
	Kind   ErrorKind
	Status int // HTTP status when one was received, 0 otherwise
	cause  error
}

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("catalog: %s: %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("catalog: %s (status %d)", e.Kind, e.Status)
}

func (e *APIError) Unwrap() error { return e.cause }

// Guidance returns the user-facing text for this failure.
func (e *APIError) Guidance() string {
	switch e.Kind {
	case ErrNotFound:
		return "Product not found. It may have been removed or the link is incorrect."
	case ErrServerError:
		return "Server error. Please try again later."
	case ErrRateLimited:
		return "Too many requests. Please wait a moment and try again."
	case ErrTransportFailure:
		return "Network connection failed. Please check your internet connection and try again."
	case ErrMalformedResponse:
		return "Invalid product data received. Please refresh the page."
	default:
		return fmt.Sprintf("Unable to load products (Error %d). Please check your connection and try again.", e.Status)
	}
}

// KindOf extracts the failure kind, or "" when err is not an APIError.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// Guidance returns the user-facing text for a catalog failure, with a
// generic fallback for errors that did not come from this client.
func Guidance(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Guidance()
	}
	return "Something went wrong. Please try again."
}

func statusError(status int) *APIError {
	kind := ErrOtherHTTP
	switch {
	case status == 404:
		kind = ErrNotFound
	case status == 429:
		kind = ErrRateLimited
	case status >= 500:
		kind = ErrServerError
	}
	return &APIError{Kind: kind, Status: status}
}
