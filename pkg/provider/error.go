package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

// Kind classifies a provider failure. The classification, not the
// concrete error type, drives retry, breaker, and fallback decisions.
type Kind string

const (
	KindInvalidProvider    Kind = "invalid_provider"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindRateLimited        Kind = "rate_limited"
	KindTimeout            Kind = "timeout"
	KindNetwork            Kind = "network_error"
	KindEmptyResponse      Kind = "empty_response"
	KindExhausted          Kind = "all_providers_exhausted"
	KindReviewParse        Kind = "review_parse_failure"
)

// Error wraps a provider failure with its classification.
type Error struct {
	Kind     Kind
	Provider ID
	Status   int
	Err      error
}

func (e *Error) Error() string {
	if e == nil {
		return "provider error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// KindOf extracts the classification from an error chain.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// Retryable reports whether a failure kind may be retried locally
// against the same provider. Rate limits and credential problems
// never are; they advance the fallback chain instead.
func Retryable(kind Kind) bool {
	switch kind {
	case KindTimeout, KindNetwork, KindEmptyResponse:
		return true
	}
	return false
}

// Classify wraps an adapter error with a failure kind. Status codes
// take precedence: 429 means rate limited regardless of transport
// details. Deadline and net timeouts classify as timeouts, remaining
// transport failures as network errors.
func Classify(id ID, err error) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}

	if status, ok := statusOf(err); ok {
		switch {
		case status == http.StatusTooManyRequests:
			return &Error{Kind: KindRateLimited, Provider: id, Status: status, Err: err}
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return &Error{Kind: KindInvalidCredentials, Provider: id, Status: status, Err: err}
		case status >= 500:
			return &Error{Kind: KindNetwork, Provider: id, Status: status, Err: err}
		default:
			return &Error{Kind: KindNetwork, Provider: id, Status: status, Err: err}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Provider: id, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Provider: id, Err: err}
	}

	return &Error{Kind: KindNetwork, Provider: id, Err: err}
}

// statusOf pulls an HTTP status out of the vendor SDK error types.
func statusOf(err error) (int, bool) {
	var httpErr *StatusError
	if errors.As(err, &httpErr) {
		return httpErr.Status, true
	}
	var anthErr *anthropic.Error
	if errors.As(err, &anthErr) {
		return anthErr.StatusCode, true
	}
	var oaiErr *openai.Error
	if errors.As(err, &oaiErr) {
		return oaiErr.StatusCode, true
	}
	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return gErr.Code, true
	}
	return 0, false
}

// StatusError carries a raw HTTP status for adapters that speak HTTP
// directly rather than through a vendor SDK.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "http error"
	}
	return fmt.Sprintf("http status %d: %s", e.Status, e.Body)
}
