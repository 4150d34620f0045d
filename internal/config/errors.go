package config

import "errors"

// Sentinel kinds for configuration errors.
var (
	ErrEmptyAddr      = errors.New("addr must not be empty")
	ErrUnknownStorage = errors.New("storage must be memory or postgres")
	ErrMissingDSN     = errors.New("postgres storage requires postgres_dsn")
)
