// Package model contains domain entities passed between layers.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Label is the three-way sentiment classification of a review.
type Label string

// Sentiment labels derived from the compound score.
const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

// Restaurant is a reviewable venue. Average sentiment and review count are
// derived from its reviews and never stored on the entity itself.
type Restaurant struct {
	ID        string
	Name      string
	Location  string
	CreatedAt time.Time
}

// Review is a single free-text review of a restaurant. Reviews are
// immutable once created; the restaurant owns them and deleting the
// restaurant deletes its reviews.
type Review struct {
	ID           string
	RestaurantID string
	Text         string
	Score        float64 // compound sentiment in [-1, 1]
	Label        Label
	CreatedAt    time.Time
}

// NewRestaurant builds a restaurant with a fresh id and creation time.
func NewRestaurant(name, location string) *Restaurant {
	return &Restaurant{
		ID:        uuid.NewString(),
		Name:      name,
		Location:  location,
		CreatedAt: time.Now().UTC(),
	}
}

// NewReview builds a review with a fresh id and creation time.
func NewReview(restaurantID, text string, score float64, label Label) *Review {
	return &Review{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		Text:         text,
		Score:        score,
		Label:        label,
		CreatedAt:    time.Now().UTC(),
	}
}
