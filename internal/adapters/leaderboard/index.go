// Package leaderboard defines the ranking index interface and errors.
package leaderboard

import "context"

// Entry represents a leaderboard row. Rank is 1-based and always counted
// in descending-score order: rank 1 is the best restaurant regardless of
// which direction the entry was read in.
type Entry struct {
	Rank         int
	RestaurantID string
	Score        float64
}

// Index maintains a total order over (restaurant id, score) pairs.
// Each restaurant id maps to at most one score at a time.
type Index interface {
	// Upsert inserts or replaces the entry for id. Idempotent under
	// repeated calls with the same score.
	Upsert(ctx context.Context, id string, score float64) error

	// Remove deletes the entry for id. Absent ids are a no-op, not an error.
	Remove(ctx context.Context, id string) error

	// Score returns the current score for id.
	// Returns ErrNotFound if the id has no entry.
	Score(ctx context.Context, id string) (float64, error)

	// Rank returns the entry for id with its current descending rank.
	// Returns ErrNotFound if the id has no entry.
	Rank(ctx context.Context, id string) (Entry, error)

	// RangeDesc returns up to count entries ordered by score descending,
	// starting at 0-based position offset.
	RangeDesc(ctx context.Context, offset, count int) ([]Entry, error)

	// RangeAsc returns up to count entries ordered by score ascending,
	// starting at 0-based position offset from the worst entry. Reported
	// ranks remain global descending ranks.
	RangeAsc(ctx context.Context, offset, count int) ([]Entry, error)

	// Count returns the number of ranked restaurants.
	Count(ctx context.Context) int

	// ReplaceAll atomically swaps the full index contents for scores.
	// Used by the reconciliation sweep.
	ReplaceAll(ctx context.Context, scores map[string]float64) error
}
