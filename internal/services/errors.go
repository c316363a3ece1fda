package services

import "errors"

var (
	// ErrNotFound signals that a referenced project, scene, shot or asset does
	// not exist. Read paths return it instead of a row; mutating paths return
	// it as a no-op failure signal. It is never a panic.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput signals a malformed payload, rejected before any mutation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingAPIKey signals that scene generation was requested without a
	// configured Google AI key.
	ErrMissingAPIKey = errors.New("google AI API key not configured")
)
