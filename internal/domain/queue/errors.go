package queue

import "errors"

// Errors returned by the queue builders
var (
	ErrNilRandomSource   = errors.New("random source cannot be nil")
	ErrInvalidTargetSize = errors.New("target size must be greater than or equal to 0")
	ErrInvalidRatio      = errors.New("tier ratio must have non-negative weights and a positive total")
	ErrInvalidLimit      = errors.New("limit must be greater than or equal to 0")
)
