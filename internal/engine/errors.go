package engine

import "errors"

var (
	// ErrInputNotFound is returned when the referenced media file does not exist.
	ErrInputNotFound = errors.New("input file not found")
	// ErrNoModels is returned when the candidate list is empty.
	ErrNoModels = errors.New("no candidate models configured")
	// ErrNoModelAvailable is returned when every candidate failed to load.
	ErrNoModelAvailable = errors.New("no model available")
	// ErrRetriesExhausted is returned when the working model failed on every attempt.
	ErrRetriesExhausted = errors.New("retries exhausted")
)
