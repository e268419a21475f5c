package airtable

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound      = errors.New("airtable: record not found")
	ErrBatchTooLarge = fmt.Errorf("airtable: at most %d records per update", MaxRecordsPerUpdate)
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
	// RetryAfter is the server's Retry-After hint on throttled responses.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("airtable HTTP %d: %s", e.StatusCode, e.Type)
	}
	return fmt.Sprintf("airtable HTTP %d: %s: %s", e.StatusCode, e.Type, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) hold for 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == 404
}
