package correction

import "errors"

var (
	// ErrMalformed is returned when streamed output is not a JSON object prefix.
	ErrMalformed = errors.New("malformed correction output")

	// ErrNonConforming is returned when complete output does not match the result schema.
	ErrNonConforming = errors.New("correction output does not match schema")

	// ErrNotMonotonic is returned when a snapshot retracts a previously seen value.
	ErrNotMonotonic = errors.New("correction snapshot is not monotonic")

	// ErrIncomplete is returned when a stream ends before the result object is closed.
	ErrIncomplete = errors.New("correction stream ended before the result was complete")
)
