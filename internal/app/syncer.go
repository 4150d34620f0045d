package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/savor/internal/adapters/leaderboard"
	"github.com/okian/savor/internal/adapters/record"
	"github.com/okian/savor/internal/domain/rating"
	"github.com/okian/savor/pkg/logger"
	"github.com/okian/savor/pkg/metrics"
)

// Retry defaults for index writes.
const (
	defaultSyncRetries = 3
	retryBackoff       = 50 * time.Millisecond
)

// Syncer keeps the leaderboard index consistent with the record store.
//
// Mutations for the same restaurant id are serialized by a per-id mutex:
// the review set is re-fetched inside the critical section, so two reviews
// landing in quick succession cannot publish an average computed from a
// stale snapshot. Mutations for different ids run concurrently.
type Syncer struct {
	records record.Store
	board   leaderboard.Index
	retries int
	logger  logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSyncer constructs a syncer over the given store and index.
func NewSyncer(records record.Store, board leaderboard.Index, retries int, log logger.Logger) *Syncer {
	if retries <= 0 {
		retries = defaultSyncRetries
	}
	return &Syncer{
		records: records,
		board:   board,
		retries: retries,
		logger:  log,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *Syncer) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *Syncer) dropLock(id string) {
	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()
}

// ReviewAdded recomputes the restaurant's average from the record store and
// pushes it into the index. The record store read must reflect the review
// that triggered the event, which it does because the caller persists the
// review before raising the event.
func (s *Syncer) ReviewAdded(ctx context.Context, restaurantID string) error {
	l := s.lockFor(restaurantID)
	l.Lock()
	defer l.Unlock()

	reviews, err := s.records.ListReviews(ctx, restaurantID)
	if err != nil {
		return fmt.Errorf("fetch reviews for %s: %w", restaurantID, err)
	}
	if len(reviews) == 0 {
		// No reviews means no entry; the restaurant raced a delete or the
		// event was spurious.
		return s.withRetry(ctx, func() error { return s.board.Remove(ctx, restaurantID) })
	}

	score := rating.AverageSentiment(reviews)
	return s.withRetry(ctx, func() error { return s.board.Upsert(ctx, restaurantID, score) })
}

// RestaurantDeleted removes the restaurant's index entry. Callers raise
// this only after the record store has durably recorded the deletion.
func (s *Syncer) RestaurantDeleted(ctx context.Context, restaurantID string) error {
	l := s.lockFor(restaurantID)
	l.Lock()
	defer l.Unlock()

	if err := s.withRetry(ctx, func() error { return s.board.Remove(ctx, restaurantID) }); err != nil {
		return err
	}
	s.dropLock(restaurantID)
	return nil
}

// Rebuild replaces the entire index with aggregates recomputed from the
// record store. This is the recovery path for drift left behind by failed
// index updates.
func (s *Syncer) Rebuild(ctx context.Context) error {
	restaurants, err := s.records.ListRestaurants(ctx)
	if err != nil {
		return fmt.Errorf("list restaurants: %w", err)
	}

	scores := make(map[string]float64, len(restaurants))
	for _, r := range restaurants {
		reviews, err := s.records.ListReviews(ctx, r.ID)
		if err != nil {
			// Deleted mid-sweep; it simply has no entry.
			continue
		}
		if len(reviews) == 0 {
			continue
		}
		scores[r.ID] = rating.AverageSentiment(reviews)
	}

	if err := s.board.ReplaceAll(ctx, scores); err != nil {
		return fmt.Errorf("replace index: %w", err)
	}
	metrics.RecordLeaderboardRebuild()
	s.logger.Info(ctx, "leaderboard rebuilt", logger.Int("entries", len(scores)))
	return nil
}

// withRetry runs fn up to the configured attempt count, backing off between
// attempts. The final failure is recorded as a leaderboard error.
func (s *Syncer) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= s.retries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt < s.retries {
			select {
			case <-ctx.Done():
				metrics.RecordLeaderboardError()
				return fmt.Errorf("index update cancelled: %w", ctx.Err())
			case <-time.After(retryBackoff * time.Duration(attempt)):
			}
		}
	}
	metrics.RecordLeaderboardError()
	return fmt.Errorf("index update failed after %d attempts: %w", s.retries, err)
}
