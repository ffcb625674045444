package insightidr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tphakala/go-insightidr/internal/api"
)

// Sentinel errors for configuration failures.
var (
	ErrNoCredentials  = errors.New("insightidr: no API key configured")
	ErrNoBaseURL      = errors.New("insightidr: no base URL configured")
	ErrInvalidTimeout = errors.New("insightidr: timeout must be positive")
)

// ErrorKind classifies an API failure. The set is closed.
type ErrorKind int

const (
	// KindGeneric covers every non-success status other than auth and rate
	// limiting, and the per-call timeout (StatusCode 0).
	KindGeneric ErrorKind = iota
	// KindAuth is a 401 or 403 response.
	KindAuth
	// KindRateLimit is a 429 response.
	KindRateLimit
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate_limit"
	default:
		return "generic"
	}
}

// Error is a classified InsightIDR API failure.
//
// Callers switch on Kind rather than on the concrete type:
//
//	var apiErr *insightidr.Error
//	if errors.As(err, &apiErr) {
//	    switch apiErr.Kind {
//	    case insightidr.KindAuth:
//	    case insightidr.KindRateLimit:
//	        if apiErr.HasRetryAfter {
//	            time.Sleep(apiErr.RetryAfter)
//	        }
//	    }
//	}
type Error struct {
	Kind    ErrorKind
	Message string

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// RetryAfter is the server's Retry-After hint for KindRateLimit.
	// HasRetryAfter reports whether the header was present and parseable;
	// a hint of zero means "retry now".
	RetryAfter    time.Duration
	HasRetryAfter bool

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindAuth:
		return fmt.Sprintf("insightidr: authentication failed: %s", e.Message)
	case KindRateLimit:
		if e.HasRetryAfter {
			return fmt.Sprintf("insightidr: rate limit exceeded: %s (retry after %s)", e.Message, e.RetryAfter)
		}
		return fmt.Sprintf("insightidr: rate limit exceeded: %s", e.Message)
	default:
		return fmt.Sprintf("insightidr: %s", e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// RetryAfterSeconds returns the retry hint in whole seconds and whether one was given.
func (e *Error) RetryAfterSeconds() (int, bool) {
	if !e.HasRetryAfter {
		return 0, false
	}
	return int(e.RetryAfter / time.Second), true
}

// AsError extracts a classified *Error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuth reports whether err is a 401/403 failure.
func IsAuth(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindAuth
}

// IsRateLimited reports whether err is a 429 failure.
func IsRateLimited(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindRateLimit
}

// IsTimeout reports whether err is the per-call timeout.
func IsTimeout(err error) bool {
	e, ok := AsError(err)
	if !ok || e.Kind != KindGeneric || e.StatusCode != 0 {
		return false
	}
	var timeoutErr *api.TimeoutError
	return errors.As(e.Err, &timeoutErr)
}

func newTimeoutError(err *api.TimeoutError) *Error {
	return &Error{
		Kind:    KindGeneric,
		Message: err.Error(),
		Err:     err,
	}
}

// classify converts a non-success response into a classified error.
// It is a pure function of its inputs and never fails.
func classify(statusCode int, statusText string, headers http.Header, body []byte) *Error {
	if statusText == "" {
		statusText = http.StatusText(statusCode)
	}
	message := strings.TrimSpace(fmt.Sprintf("%d %s", statusCode, statusText))

	// Best-effort enrichment from the response body
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		message += ": " + payload.Message
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Error{Kind: KindAuth, Message: message, StatusCode: statusCode}
	case http.StatusTooManyRequests:
		retryAfter, ok := parseRetryAfter(headers.Get("Retry-After"))
		return &Error{
			Kind:          KindRateLimit,
			Message:       message,
			StatusCode:    http.StatusTooManyRequests,
			RetryAfter:    retryAfter,
			HasRetryAfter: ok,
		}
	default:
		return &Error{Kind: KindGeneric, Message: message, StatusCode: statusCode}
	}
}

// parseRetryAfter parses the Retry-After header value and reports whether
// it held a usable hint. It handles both delta-seconds and HTTP-date formats.
// A date in the past yields a zero hint.
func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	// Try parsing as seconds first
	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}

	// Try parsing as HTTP-date
	if t, err := http.ParseTime(value); err == nil {
		return max(time.Until(t).Truncate(time.Second), 0), true
	}

	return 0, false
}
