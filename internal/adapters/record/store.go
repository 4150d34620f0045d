// Package record defines the durable store for restaurants and reviews.
package record

import (
	"context"

	"github.com/okian/savor/internal/domain/model"
)

// Store provides CRUD access to the review records. Implementations must
// make each single write atomic; cross-entity consistency beyond the
// restaurant→review cascade is the caller's concern.
type Store interface {
	// CreateRestaurant persists a new restaurant.
	CreateRestaurant(ctx context.Context, r *model.Restaurant) error

	// GetRestaurant returns the restaurant with id.
	// Returns ErrNotFound if absent.
	GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error)

	// ListRestaurants returns all restaurants ordered by creation time.
	ListRestaurants(ctx context.Context) ([]*model.Restaurant, error)

	// DeleteRestaurant removes the restaurant and all of its reviews.
	// Returns ErrNotFound if absent.
	DeleteRestaurant(ctx context.Context, id string) error

	// CreateReview persists a new review for an existing restaurant.
	// Returns ErrNotFound if the restaurant is unknown.
	CreateReview(ctx context.Context, rv *model.Review) error

	// ListReviews returns all reviews owned by a restaurant, oldest first.
	ListReviews(ctx context.Context, restaurantID string) ([]*model.Review, error)

	// CountReviews returns the number of reviews owned by a restaurant.
	CountReviews(ctx context.Context, restaurantID string) (int, error)

	// Counts returns the total number of restaurants and reviews.
	Counts(ctx context.Context) (restaurants, reviews int, err error)

	// Close releases any backing resources.
	Close() error
}
