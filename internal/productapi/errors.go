package productapi

import (
	"errors"
	"fmt"
)

// StatusError is returned when the product API answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s failed with status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.StatusCode, e.Body)
}

// ErrRateLimited is returned when 429 responses outlast the retry budget.
type ErrRateLimited struct {
	RetryAfter int // seconds, 0 when the server sent no hint
}

func (e ErrRateLimited) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited by product API, retry after %ds", e.RetryAfter)
	}
	return "rate limited by product API"
}

// ErrInvalidResponse wraps a response body that could not be decoded.
var ErrInvalidResponse = errors.New("invalid product API response")

// IsNotFound reports whether err is a 404 from the product API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == 404
}
