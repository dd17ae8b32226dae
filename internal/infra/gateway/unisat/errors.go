package unisat

import (
	"errors"
	"fmt"
)

// APIError is returned when the indexer answers with a non-2xx status or a
// non-zero envelope code.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("UniSat API error: status %d, code %d: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("UniSat API error: status %d, body: %s", e.StatusCode, e.Message)
}

// SchemaError is returned when a successful response cannot be decoded into
// the expected envelope.
type SchemaError struct {
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected UniSat response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("unexpected UniSat response: %s", e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// IsAPIError checks if an error is (or wraps) an APIError
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsSchemaError checks if an error is (or wraps) a SchemaError
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}
