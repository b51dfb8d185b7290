package fastset

import (
	"errors"
	"fmt"
)

// ErrNetwork is the root of every transport failure and non-success API response.
var ErrNetwork = errors.New("network error")

// APIError is returned for any non-200 response. It carries the raw body text.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("API %s -> status=%d: %s", e.Operation, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("API %s -> status=%d", e.Operation, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return ErrNetwork
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}
