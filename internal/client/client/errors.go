package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNetwork      = errors.New("network error")
	ErrUnavailable  = fmt.Errorf("%w: server unavailable", ErrNetwork)
	ErrUnauthorized = fmt.Errorf("%w: unauthorized", ErrNetwork)
)

// StatusError reports a non-2xx response not covered by a sentinel.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error { return ErrNetwork }

func statusError(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: status %d", ErrUnavailable, code)
	default:
		return &StatusError{StatusCode: code}
	}
}
