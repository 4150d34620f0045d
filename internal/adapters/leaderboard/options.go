package leaderboard

import "math/rand"

// Option applies a configuration option to the TreapIndex.
type Option func(*TreapIndex)

// WithPrioritySeed fixes the treap priority source, making tree shapes
// reproducible in tests.
func WithPrioritySeed(seed int64) Option {
	return func(t *TreapIndex) {
		t.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic seed for reproducible tests
	}
}
