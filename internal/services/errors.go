package services

import "errors"

var (
	// ErrUnparseable is returned when no transaction could be extracted from raw text.
	ErrUnparseable = errors.New("could not extract transaction")
	// ErrInvalidPeriod is returned for a report month outside 1-12 or a non-positive year.
	ErrInvalidPeriod = errors.New("invalid report period")
	// ErrInvalidRange is returned when a listing range ends before it starts.
	ErrInvalidRange = errors.New("invalid date range")
)

// Invalidator drops derived data after the underlying transactions change.
type Invalidator interface {
	Invalidate()
}
