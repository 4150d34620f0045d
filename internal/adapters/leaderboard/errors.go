package leaderboard

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrNotFound     = errors.New("restaurant not ranked")
	ErrInvalidRange = errors.New("invalid leaderboard range")
)
