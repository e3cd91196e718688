package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidRating is returned when a rating is not one of
	// again, hard, good or easy.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrInvalidMasteryTier is returned when a tier name is not recognized.
	ErrInvalidMasteryTier = errors.New("invalid mastery tier")

	// ErrInvalidCardContent is returned when card content is not valid JSON.
	ErrInvalidCardContent = errors.New("invalid card content")
)
