package source

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrMalformedRoot is returned when a JSON document is not an array of objects.
var ErrMalformedRoot = errors.New("malformed source: expected an array of objects")

// ErrUnsupported indicates no decoder handles the location's format.
var ErrUnsupported = errors.New("unsupported source format")

// StatusError is a non-2xx response from a remote source.
type StatusError struct {
	StatusCode int
	URL        string
	RequestID  string
	RetryAfter time.Duration
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("source responded %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.RequestID != "" {
		msg += " request_id=" + e.RequestID
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Temporary reports whether the status is worth retrying (429 and 5xx).
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || (e.StatusCode >= 500 && e.StatusCode <= 599)
}

// UnreachableError indicates the source host could not be reached.
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	if e == nil {
		return "unreachable"
	}
	if e.Host != "" {
		return fmt.Sprintf("source unreachable at %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("source unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }
