package record

import "errors"

// Sentinel kinds for record store errors.
var (
	ErrNotFound = errors.New("restaurant not found")
)
