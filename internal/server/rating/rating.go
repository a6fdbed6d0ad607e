// Package rating derives a card's rating from its comments.
package rating

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/placerate/internal/dbx"
	"github.com/dmitrijs2005/placerate/internal/server/repositories/repomanager"
)

// Mean returns the arithmetic mean of ratings, or 0 when there are none.
func Mean(ratings []float64) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return sum / float64(len(ratings))
}

// Aggregator keeps cards.rating equal to the mean of the card's comment ratings.
type Aggregator struct {
	repoManager repomanager.RepositoryManager
}

func NewAggregator(m repomanager.RepositoryManager) *Aggregator {
	return &Aggregator{repoManager: m}
}

// Recompute reads every comment of the card, stores the mean as the card's
// rating and returns it. db should be the transaction that inserted the
// triggering comment, so the new comment is included and the write is atomic
// with it.
func (a *Aggregator) Recompute(ctx context.Context, db dbx.DBTX, cardID string) (float64, error) {
	comments, err := a.repoManager.Comments(db).ListByCard(ctx, cardID)
	if err != nil {
		return 0, fmt.Errorf("list comments: %w", err)
	}

	ratings := make([]float64, 0, len(comments))
	for _, c := range comments {
		ratings = append(ratings, c.Rating)
	}
	mean := Mean(ratings)

	if err := a.repoManager.Cards(db).UpdateRating(ctx, cardID, mean); err != nil {
		return 0, fmt.Errorf("update rating: %w", err)
	}
	return mean, nil
}
