// Package rating computes a restaurant's aggregate sentiment from its
// review collection.
package rating

import (
	"math"

	"github.com/okian/savor/internal/domain/model"
)

// AverageSentiment returns the arithmetic mean of the review sentiment
// scores rounded to two decimal places, or 0 for an empty collection.
//
// Rounding is round-half-to-even, so 0.125 averages to 0.12 and 0.135 to
// 0.14. The average is recomputed from scratch on every call; callers that
// need freshness should pass the current review set.
func AverageSentiment(reviews []*model.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Score
	}
	return Round2(sum / float64(len(reviews)))
}

// Round2 rounds to two decimal places using round-half-to-even.
func Round2(x float64) float64 {
	return math.RoundToEven(x*100) / 100
}
