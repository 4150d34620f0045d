// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/savor/internal/adapters/leaderboard"
	"github.com/okian/savor/internal/adapters/record"
	"github.com/okian/savor/internal/domain/model"
	"github.com/okian/savor/internal/domain/rating"
	"github.com/okian/savor/internal/domain/sentiment"
	"github.com/okian/savor/pkg/logger"
	"github.com/okian/savor/pkg/metrics"
)

// Storage backend names accepted by the config.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Service implements the API dependencies for the review service.
type Service struct {
	mu sync.RWMutex

	// Core components
	records record.Store
	board   leaderboard.Index
	scorer  sentiment.Scorer
	syncer  *Syncer

	// Configuration
	storage     string
	postgresDSN string
	syncRetries int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithStorage selects the record store backend: "memory" or "postgres".
func WithStorage(storage, dsn string) Option {
	return func(s *Service) {
		if storage != "" {
			s.storage = storage
		}
		s.postgresDSN = dsn
	}
}

// WithRecordStore injects a record store, bypassing backend selection.
func WithRecordStore(store record.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.records = store
		}
	}
}

// WithIndex injects a leaderboard index.
func WithIndex(board leaderboard.Index) Option {
	return func(s *Service) {
		if board != nil {
			s.board = board
		}
	}
}

// WithScorer injects a sentiment scorer.
func WithScorer(scorer sentiment.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithSyncRetries bounds the index update retry count.
func WithSyncRetries(retries int) Option {
	return func(s *Service) {
		if retries > 0 {
			s.syncRetries = retries
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storage:     StorageMemory,
		syncRetries: defaultSyncRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components and primes the leaderboard from
// the record store.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting review service...")

	if s.records == nil {
		switch s.storage {
		case StoragePostgres:
			store, err := record.NewPostgres(ctx, s.postgresDSN)
			if err != nil {
				return fmt.Errorf("open record store: %w", err)
			}
			s.records = store
			s.logger.Info(ctx, "using postgres record store")
		case StorageMemory:
			s.records = record.NewMemory()
			s.logger.Info(ctx, "using in-memory record store")
		default:
			return fmt.Errorf("unknown storage backend %q", s.storage)
		}
	}
	if s.board == nil {
		s.board = leaderboard.NewTreapIndex()
	}
	if s.scorer == nil {
		s.scorer = sentiment.NewVaderScorer()
	}
	s.syncer = NewSyncer(s.records, s.board, s.syncRetries, s.logger.Named("syncer"))

	// A durable store may already hold records the fresh index knows
	// nothing about.
	if err := s.syncer.Rebuild(ctx); err != nil {
		return fmt.Errorf("prime leaderboard: %w", err)
	}

	s.started = true
	s.logger.Info(ctx, "review service started",
		logger.String("storage", s.storage),
		logger.Int("syncRetries", s.syncRetries),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping review service...")

	if s.records != nil {
		if err := s.records.Close(); err != nil {
			s.logger.Warn(ctx, "record store close failed", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "review service stopped")
}

// ListRestaurants returns all restaurants with their derived aggregates.
func (s *Service) ListRestaurants(ctx context.Context) ([]RestaurantView, error) {
	restaurants, err := s.records.ListRestaurants(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RestaurantView, 0, len(restaurants))
	for _, r := range restaurants {
		avg, count := s.aggregate(ctx, r.ID)
		out = append(out, restaurantView(r, avg, count))
	}
	return out, nil
}

// CreateRestaurant validates input and persists a new restaurant. The
// leaderboard is untouched: a restaurant with no reviews has no entry.
func (s *Service) CreateRestaurant(ctx context.Context, name, location string) (RestaurantView, error) {
	if strings.TrimSpace(name) == "" {
		return RestaurantView{}, fmt.Errorf("%w: missing name", ErrValidation)
	}
	if strings.TrimSpace(location) == "" {
		return RestaurantView{}, fmt.Errorf("%w: missing location", ErrValidation)
	}

	r := model.NewRestaurant(name, location)
	if err := s.records.CreateRestaurant(ctx, r); err != nil {
		return RestaurantView{}, err
	}
	s.logger.Debug(ctx, "restaurant created", logger.String("id", r.ID), logger.String("name", r.Name))
	return restaurantView(r, 0, 0), nil
}

// AddReview scores the text, persists the review, and synchronizes the
// leaderboard. The returned flag reports whether the index was updated; a
// false flag with a nil error means the review is durable but the board is
// temporarily stale.
func (s *Service) AddReview(ctx context.Context, restaurantID, text string) (ReviewView, bool, error) {
	if strings.TrimSpace(restaurantID) == "" {
		return ReviewView{}, false, fmt.Errorf("%w: missing restaurant_id", ErrValidation)
	}
	if strings.TrimSpace(text) == "" {
		return ReviewView{}, false, fmt.Errorf("%w: missing text", ErrValidation)
	}

	// Reject unknown restaurants before any side effect.
	if _, err := s.records.GetRestaurant(ctx, restaurantID); err != nil {
		return ReviewView{}, false, err
	}

	start := time.Now()
	result, err := s.scorer.Score(ctx, text)
	if err != nil {
		return ReviewView{}, false, fmt.Errorf("score review: %w", err)
	}
	metrics.RecordSentimentLatency(float64(time.Since(start).Milliseconds()))

	rv := model.NewReview(restaurantID, text, result.Score, result.Label)
	if err := s.records.CreateReview(ctx, rv); err != nil {
		return ReviewView{}, false, err
	}
	metrics.RecordReviewIngested()

	// The review is durable; an index failure degrades to a stale board,
	// never to a failed request.
	updated := true
	if err := s.syncer.ReviewAdded(ctx, restaurantID); err != nil {
		updated = false
		s.logger.Warn(ctx, "leaderboard not updated",
			logger.String("restaurantID", restaurantID),
			logger.Error(err),
		)
	}
	return reviewView(rv), updated, nil
}

// DeleteRestaurant removes the restaurant, its reviews, and its index entry.
func (s *Service) DeleteRestaurant(ctx context.Context, id string) error {
	if err := s.records.DeleteRestaurant(ctx, id); err != nil {
		return err
	}
	if err := s.syncer.RestaurantDeleted(ctx, id); err != nil {
		// Leaderboard queries tolerate the stale entry until the next
		// rebuild; the delete itself succeeded.
		s.logger.Warn(ctx, "stale leaderboard entry left behind",
			logger.String("restaurantID", id),
			logger.Error(err),
		)
	}
	return nil
}

// Leaderboard returns the full board, best first.
func (s *Service) Leaderboard(ctx context.Context) ([]RankedRestaurant, error) {
	return s.ranked(ctx, func() ([]leaderboard.Entry, error) {
		return s.board.RangeDesc(ctx, 0, s.board.Count(ctx))
	})
}

// TopN returns the best n restaurants.
func (s *Service) TopN(ctx context.Context, n int) ([]RankedRestaurant, error) {
	return s.ranked(ctx, func() ([]leaderboard.Entry, error) {
		return s.board.RangeDesc(ctx, 0, n)
	})
}

// BottomN returns the worst n restaurants, worst first, with their global
// descending ranks.
func (s *Service) BottomN(ctx context.Context, n int) ([]RankedRestaurant, error) {
	return s.ranked(ctx, func() ([]leaderboard.Entry, error) {
		return s.board.RangeAsc(ctx, 0, n)
	})
}

// Rebuild recomputes the whole index from the record store.
func (s *Service) Rebuild(ctx context.Context) error {
	return s.syncer.Rebuild(ctx)
}

// ranked runs an index query and hydrates entity detail for the page.
func (s *Service) ranked(ctx context.Context, query func() ([]leaderboard.Entry, error)) ([]RankedRestaurant, error) {
	entries, err := query()
	if err != nil {
		return nil, err
	}

	out := make([]RankedRestaurant, 0, len(entries))
	for _, e := range entries {
		r, err := s.records.GetRestaurant(ctx, e.RestaurantID)
		if errors.Is(err, record.ErrNotFound) {
			// Deleted after the index was read; skip the stale row.
			continue
		}
		if err != nil {
			return nil, err
		}
		count, err := s.records.CountReviews(ctx, e.RestaurantID)
		if err != nil {
			count = 0
		}
		out = append(out, RankedRestaurant{
			Rank:            e.Rank,
			Restaurant:      restaurantView(r, e.Score, count),
			CachedSentiment: e.Score,
		})
	}
	return out, nil
}

// aggregate derives a restaurant's average sentiment and review count
// on demand from its owned reviews.
func (s *Service) aggregate(ctx context.Context, id string) (float64, int) {
	reviews, err := s.records.ListReviews(ctx, id)
	if err != nil {
		return 0, 0
	}
	return rating.AverageSentiment(reviews), len(reviews)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": s.started,
		"storage": s.storage,
	}

	if s.started {
		restaurants, reviews, err := s.records.Counts(ctx)
		if err == nil {
			stats["totalRestaurants"] = restaurants
			stats["totalReviews"] = reviews
			metrics.UpdateTotalRestaurants(restaurants)
			metrics.UpdateTotalReviews(reviews)
		}
		stats["leaderboardSize"] = s.board.Count(ctx)
	}

	return stats
}
