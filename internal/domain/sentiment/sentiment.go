// Package sentiment defines the contract for deriving a sentiment score
// from free review text.
package sentiment

import (
	"context"
	"fmt"

	"github.com/jonreiter/govader"

	"github.com/okian/savor/internal/domain/model"
)

// Compound-score cutoffs for the three-way label, following the VADER
// convention: [-0.05, 0.05] is neutral.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// Result contains the derived sentiment for a piece of text.
type Result struct {
	Score float64 // compound score in [-1, 1]
	Label model.Label
}

// Scorer computes sentiment from review text.
type Scorer interface {
	// Score derives the compound score and label, honoring ctx for cancellation.
	Score(ctx context.Context, text string) (Result, error)
}

// VaderScorer implements Scorer with the VADER lexicon.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer creates a lexicon-backed scorer. The analyzer is stateless
// per call and safe to share across requests.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score derives the compound sentiment score for text.
func (s *VaderScorer) Score(ctx context.Context, text string) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, fmt.Errorf("sentiment scoring cancelled: %w", ctx.Err())
	default:
	}

	scores := s.analyzer.PolarityScores(text)
	return Result{
		Score: scores.Compound,
		Label: Classify(scores.Compound),
	}, nil
}

// Classify maps a compound score to its three-way label.
func Classify(compound float64) model.Label {
	switch {
	case compound > positiveThreshold:
		return model.LabelPositive
	case compound < negativeThreshold:
		return model.LabelNegative
	default:
		return model.LabelNeutral
	}
}
