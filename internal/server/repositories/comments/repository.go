// Package comments provides the comment repositories. Comments are
// append-only: there is no update or delete.
package comments

import (
	"context"

	"github.com/dmitrijs2005/placerate/internal/server/models"
)

// Repository stores comments. ListByCard returns comments in insertion order.
type Repository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	ListByCard(ctx context.Context, cardID string) ([]*models.Comment, error)
}
