// Package cards provides the card repositories, including the cards LEFT
// JOIN comments read used to build nested card documents.
package cards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/placerate/internal/common"
	"github.com/dmitrijs2005/placerate/internal/server/models"
)

// Repository stores cards. Missing cards are reported as common.ErrorNotFound.
//
// ListWithComments and GetWithComments return one row per comment (one row
// with NULL comment columns for a card without comments), ordered by card
// insertion order and then comment insertion order.
type Repository interface {
	Create(ctx context.Context, card *models.Card) (*models.Card, error)
	GetByID(ctx context.Context, id string) (*models.Card, error)
	// LockForUpdate checks that the card exists and, where the store
	// supports it, locks its row until the surrounding transaction ends.
	LockForUpdate(ctx context.Context, id string) error
	UpdateRating(ctx context.Context, id string, rating float64) error
	Delete(ctx context.Context, id string) error
	ListWithComments(ctx context.Context) ([]models.CardCommentRow, error)
	GetWithComments(ctx context.Context, id string) ([]models.CardCommentRow, error)
}

func scanCard(row *sql.Row) (*models.Card, error) {
	card := &models.Card{}
	err := row.Scan(&card.ID, &card.UserID, &card.URLImg, &card.Name, &card.Description,
		&card.Obl, &card.Region, &card.DescriptionUsl, &card.Rating)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return card, nil
}

// expectOneRow turns the result of a single-row UPDATE/DELETE into
// common.ErrorNotFound when nothing matched.
func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
