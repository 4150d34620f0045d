package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrValidation = errors.New("validation failed")
)
