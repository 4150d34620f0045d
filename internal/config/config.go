// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...) to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Storage selects the record store backend: memory or postgres.
	Storage string `koanf:"storage"`

	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string `koanf:"postgres_dsn"`

	// MaxLeaderboardLimit caps the {n} path parameter on top/bottom queries.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// SyncRetries bounds retries of leaderboard index updates.
	SyncRetries int `koanf:"sync_retries"`

	// RebuildSchedule is a cron expression for the periodic index
	// reconciliation sweep. Empty disables the sweep.
	RebuildSchedule string `koanf:"rebuild_schedule"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		Storage:             "memory",
		PostgresDSN:         "",
		MaxLeaderboardLimit: 100,
		SyncRetries:         3,
		RebuildSchedule:     "@every 10m",
	}
}
