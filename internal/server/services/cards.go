package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/placerate/internal/common"
	"github.com/dmitrijs2005/placerate/internal/dbx"
	"github.com/dmitrijs2005/placerate/internal/server/cardview"
	"github.com/dmitrijs2005/placerate/internal/server/models"
	"github.com/dmitrijs2005/placerate/internal/server/rating"
	"github.com/dmitrijs2005/placerate/internal/server/repositories/repomanager"
)

// CardInput is the client-supplied part of a card. The rating is not part of
// it: cards start at 0 and the rating is derived from comments afterwards.
type CardInput struct {
	UserID         string
	URLImg         string
	Name           string
	Description    string
	Obl            string
	Region         string
	DescriptionUsl string
}

// CardService manages cards and their comments and keeps every card's rating
// equal to the mean of its comment ratings.
type CardService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	aggregator  *rating.Aggregator
	locks       *keyLock
	now         func() time.Time
}

func NewCardService(db *sql.DB, m repomanager.RepositoryManager) *CardService {
	return &CardService{
		db:          db,
		repomanager: m,
		aggregator:  rating.NewAggregator(m),
		locks:       newKeyLock(),
		now:         time.Now,
	}
}

func (s *CardService) CreateCard(ctx context.Context, in CardInput) (*models.Card, error) {
	if err := validateID("user id", in.UserID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}

	card := &models.Card{
		UserID:         in.UserID,
		URLImg:         in.URLImg,
		Name:           in.Name,
		Description:    in.Description,
		Obl:            in.Obl,
		Region:         in.Region,
		DescriptionUsl: in.DescriptionUsl,
		Rating:         0,
	}

	c, err := s.repomanager.Cards(s.db).Create(ctx, card)
	if err != nil {
		return nil, fmt.Errorf("error creating card: %w", err)
	}
	return c, nil
}

// ListCards returns every card with its comments embedded, in insertion order.
func (s *CardService) ListCards(ctx context.Context) ([]*models.CardView, error) {
	rows, err := s.repomanager.Cards(s.db).ListWithComments(ctx)
	if err != nil {
		return nil, err
	}
	return cardview.Reconstruct(rows), nil
}

func (s *CardService) GetCard(ctx context.Context, cardID string) (*models.CardView, error) {
	if err := validateID("card id", cardID); err != nil {
		return nil, err
	}

	rows, err := s.repomanager.Cards(s.db).GetWithComments(ctx, cardID)
	if err != nil {
		return nil, err
	}

	views := cardview.Reconstruct(rows)
	if len(views) != 1 {
		return nil, fmt.Errorf("%w: %d cards for id %s", common.ErrorInternal, len(views), cardID)
	}
	return views[0], nil
}

// AddComment stores a comment dated now and recomputes the card's rating.
// Both writes happen in one transaction while holding the card's lock, so
// concurrent comments on a card cannot overwrite each other's rating. If any
// step fails nothing is stored.
func (s *CardService) AddComment(ctx context.Context, cardID, description string, score float64) (*models.Comment, error) {
	if err := validateID("card id", cardID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(cardID)
	defer unlock()

	comment := &models.Comment{
		CardID:      cardID,
		Description: description,
		Date:        s.now().UTC().Truncate(time.Millisecond),
		Rating:      score,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Cards(tx).LockForUpdate(ctx, cardID); err != nil {
			return err
		}
		if _, err := s.repomanager.Comments(tx).Create(ctx, comment); err != nil {
			return fmt.Errorf("error creating comment: %w", err)
		}
		if _, err := s.aggregator.Recompute(ctx, tx, cardID); err != nil {
			return fmt.Errorf("error recomputing rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns the comments of a card in insertion order. A card
// without comments, or an unknown card, yields an empty slice.
func (s *CardService) ListComments(ctx context.Context, cardID string) ([]*models.Comment, error) {
	if err := validateID("card id", cardID); err != nil {
		return nil, err
	}
	return s.repomanager.Comments(s.db).ListByCard(ctx, cardID)
}

// DeleteCard removes a card on behalf of actingUserID, who must own the card
// or hold the admin role. Comments of the card are left in place.
func (s *CardService) DeleteCard(ctx context.Context, cardID, actingUserID string) error {
	if err := validateID("card id", cardID); err != nil {
		return err
	}
	if err := validateID("user id", actingUserID); err != nil {
		return err
	}

	unlock := s.locks.Lock(cardID)
	defer unlock()

	card, err := s.repomanager.Cards(s.db).GetByID(ctx, cardID)
	if err != nil {
		return err
	}

	if card.UserID != actingUserID {
		user, err := s.repomanager.Users(s.db).GetByID(ctx, actingUserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorForbidden
			}
			return err
		}
		if !user.IsAdmin() {
			return common.ErrorForbidden
		}
	}

	return s.repomanager.Cards(s.db).Delete(ctx, cardID)
}
