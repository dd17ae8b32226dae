package history

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is returned when a history record lacks a required field
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidTimestamp is returned when blocktime cannot be read as epoch seconds
	ErrInvalidTimestamp = errors.New("invalid blocktime")

	// ErrInvalidAmount is returned when amount is not a decimal number
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrPageLimitReached is reported when pagination stops at the configured page cap
	ErrPageLimitReached = errors.New("page limit reached before end of history")

	// ErrInvalidTransactionType is returned for an empty or malformed transaction type
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidTimeFrame is returned for an unknown time frame
	ErrInvalidTimeFrame = errors.New("invalid time frame")
)

// SchemaError reports upstream data that does not match the expected shape.
// It is fatal for the fetch that produced it.
type SchemaError struct {
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed history data: %v", e.Err)
	}
	return fmt.Sprintf("malformed history data: %s: %v", e.Field, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// IsSchemaError checks if an error is (or wraps) a SchemaError
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}
