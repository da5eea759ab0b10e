package service

import "errors"

// Typed failures raised by the service layer. The handler boundary translates
// them into HTTP statuses and error codes; anything else becomes a 500.
var (
	ErrInvalidURL          = errors.New("invalid URL format")
	ErrInvalidShortcode    = errors.New("invalid shortcode format")
	ErrInvalidValidity     = errors.New("invalid validity duration")
	ErrShortcodeTaken      = errors.New("shortcode already exists")
	ErrNotFound            = errors.New("shortcode not found")
	ErrAllocationExhausted = errors.New("unable to generate unique shortcode")
)
