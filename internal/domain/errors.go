package domain

import (
	"errors"
	"fmt"
)

// ErrMalformedTimestamp is returned when a Start or End field is not in
// "day/month/year hour:minute" form.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// ErrMalformedDuration is returned when a Duration field is not "HOURS:MINUTES".
var ErrMalformedDuration = errors.New("malformed duration")

// ErrUnknownEventType is returned for a Type value the builder does not know.
// The wrapping error message carries the original string.
var ErrUnknownEventType = errors.New("unknown event type")

// ErrRowSource is returned for failures of the row source itself: a missing
// header column, malformed tabular syntax, or an I/O error.
var ErrRowSource = errors.New("row source error")

// ErrTransport is returned by the charting client for any network, status or
// authentication failure.
var ErrTransport = errors.New("transport error")

// ErrNotFound is returned by repo functions when the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when configuration or command input fails validation.
var ErrValidation = errors.New("validation error")

// RowError is a per-row failure yielded by the event stream. Consumers may skip
// it and keep reading; any stream error that is not a *RowError is fatal.
type RowError struct {
	// Line is the 1-based line number of the record in the source, header included.
	Line int
	// Type is the raw Type value of the row, when it could be read.
	Type string
	Err  error
}

func (e *RowError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.Type, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// IsRowError reports whether err is a recoverable per-row failure.
func IsRowError(err error) bool {
	var rowErr *RowError
	return errors.As(err, &rowErr)
}
