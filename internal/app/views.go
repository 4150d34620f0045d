package service

import (
	"time"

	"github.com/okian/savor/internal/domain/model"
)

// RestaurantView is the serialized restaurant shape, including the derived
// aggregate fields. CreatedAt marshals as RFC 3339.
type RestaurantView struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Location         string    `json:"location"`
	AverageSentiment float64   `json:"average_sentiment"`
	TotalReviews     int       `json:"total_reviews"`
	CreatedAt        time.Time `json:"created_at"`
}

// ReviewView is the serialized review shape.
type ReviewView struct {
	ID             string    `json:"id"`
	RestaurantID   string    `json:"restaurant_id"`
	Text           string    `json:"text"`
	SentimentScore float64   `json:"sentiment_score"`
	SentimentLabel string    `json:"sentiment_label"`
	CreatedAt      time.Time `json:"created_at"`
}

// RankedRestaurant is one leaderboard row: the global rank, the hydrated
// restaurant, and the sentiment score cached in the index.
type RankedRestaurant struct {
	Rank            int            `json:"rank"`
	Restaurant      RestaurantView `json:"restaurant"`
	CachedSentiment float64        `json:"cached_sentiment"`
}

func reviewView(rv *model.Review) ReviewView {
	return ReviewView{
		ID:             rv.ID,
		RestaurantID:   rv.RestaurantID,
		Text:           rv.Text,
		SentimentScore: rv.Score,
		SentimentLabel: string(rv.Label),
		CreatedAt:      rv.CreatedAt,
	}
}

func restaurantView(r *model.Restaurant, avg float64, reviews int) RestaurantView {
	return RestaurantView{
		ID:               r.ID,
		Name:             r.Name,
		Location:         r.Location,
		AverageSentiment: avg,
		TotalReviews:     reviews,
		CreatedAt:        r.CreatedAt,
	}
}
