package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidURL marks request targets that could not be parsed
var ErrInvalidURL = errors.New("invalid request url")

// TransportError wraps network-level failures (DNS, connect, timeout)
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError represents an HTTP response outside the 2xx range
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// DecodeError wraps payloads that did not match the expected shape
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UpstreamError is an in-band failure reported by the source itself:
// the HTTP exchange succeeded but the payload carries a false success flag.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream reported failure: %s", e.Message)
}

// IsRateLimited reports whether err is an HTTP 429 response. Rate limits are
// classified apart from generic status errors so callers can back off
// instead of retrying immediately.
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusTooManyRequests
}

// IsStatus reports whether err is an HTTP status error with the given code
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
