package record

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/savor/internal/domain/model"
)

// Memory implements Store with mutex-guarded maps. It is the default
// backend and the one tests run against.
type Memory struct {
	mu          sync.RWMutex
	restaurants map[string]*model.Restaurant
	reviews     map[string][]*model.Review // restaurant id -> reviews, oldest first
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		restaurants: make(map[string]*model.Restaurant),
		reviews:     make(map[string][]*model.Review),
	}
}

// CreateRestaurant persists a new restaurant.
func (m *Memory) CreateRestaurant(ctx context.Context, r *model.Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *r
	m.restaurants[r.ID] = &cp
	return nil
}

// GetRestaurant returns the restaurant with id.
func (m *Memory) GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.restaurants[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// ListRestaurants returns all restaurants ordered by creation time.
func (m *Memory) ListRestaurants(ctx context.Context) ([]*model.Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*model.Restaurant, 0, len(m.restaurants))
	for _, r := range m.restaurants {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteRestaurant removes the restaurant and cascades to its reviews.
func (m *Memory) DeleteRestaurant(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.restaurants[id]; !ok {
		return ErrNotFound
	}
	delete(m.restaurants, id)
	delete(m.reviews, id)
	return nil
}

// CreateReview persists a new review for an existing restaurant.
func (m *Memory) CreateReview(ctx context.Context, rv *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.restaurants[rv.RestaurantID]; !ok {
		return ErrNotFound
	}
	cp := *rv
	m.reviews[rv.RestaurantID] = append(m.reviews[rv.RestaurantID], &cp)
	return nil
}

// ListReviews returns all reviews owned by a restaurant, oldest first.
func (m *Memory) ListReviews(ctx context.Context, restaurantID string) ([]*model.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.restaurants[restaurantID]; !ok {
		return nil, ErrNotFound
	}
	src := m.reviews[restaurantID]
	out := make([]*model.Review, len(src))
	for i, rv := range src {
		cp := *rv
		out[i] = &cp
	}
	return out, nil
}

// CountReviews returns the number of reviews owned by a restaurant.
func (m *Memory) CountReviews(ctx context.Context, restaurantID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.restaurants[restaurantID]; !ok {
		return 0, ErrNotFound
	}
	return len(m.reviews[restaurantID]), nil
}

// Counts returns the total number of restaurants and reviews.
func (m *Memory) Counts(ctx context.Context) (int, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reviews := 0
	for _, rvs := range m.reviews {
		reviews += len(rvs)
	}
	return len(m.restaurants), reviews, nil
}

// Close releases nothing for the in-memory store.
func (m *Memory) Close() error {
	return nil
}
