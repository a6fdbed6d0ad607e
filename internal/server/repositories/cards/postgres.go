package cards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/placerate/internal/common"
	"github.com/dmitrijs2005/placerate/internal/dbx"
	"github.com/dmitrijs2005/placerate/internal/server/models"
)

// PostgresRepository implements card storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the card as given (the caller decides the initial rating)
// and fills in the generated id.
func (r *PostgresRepository) Create(ctx context.Context, card *models.Card) (*models.Card, error) {
	query := `
		INSERT INTO cards (user_id, url_img, name, description, obl, region, descriptionusl, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		card.UserID, card.URLImg, card.Name, card.Description, card.Obl, card.Region, card.DescriptionUsl, card.Rating,
	).Scan(&card.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return card, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Card, error) {
	query := `
		SELECT id, user_id, url_img, name, description, obl, region, descriptionusl, rating
		FROM cards
		WHERE id = $1
	`
	return scanCard(r.db.QueryRowContext(ctx, query, id))
}

// LockForUpdate takes a row lock on the card for the rest of the transaction.
func (r *PostgresRepository) LockForUpdate(ctx context.Context, id string) error {
	query := `SELECT id FROM cards WHERE id = $1 FOR UPDATE`

	var locked string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	query := `UPDATE cards SET rating = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, rating, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM cards WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

const joinQuery = `
	SELECT c.id, c.user_id, c.url_img, c.name, c.description, c.obl, c.region, c.descriptionusl, c.rating,
	       m.id, m.description, m.created_at, m.rating
	FROM cards c
	LEFT JOIN comments m ON m.card_id = c.id
`

func (r *PostgresRepository) ListWithComments(ctx context.Context) ([]models.CardCommentRow, error) {
	return r.selectJoined(ctx, joinQuery+` ORDER BY c.seq, m.seq`)
}

func (r *PostgresRepository) GetWithComments(ctx context.Context, id string) ([]models.CardCommentRow, error) {
	rows, err := r.selectJoined(ctx, joinQuery+` WHERE c.id = $1 ORDER BY m.seq`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, common.ErrorNotFound
	}
	return rows, nil
}

func (r *PostgresRepository) selectJoined(ctx context.Context, query string, args ...any) ([]models.CardCommentRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select cards: %w", err)
	}
	defer rows.Close()

	var result []models.CardCommentRow
	for rows.Next() {
		var row models.CardCommentRow
		if err := rows.Scan(
			&row.ID, &row.UserID, &row.URLImg, &row.Name, &row.Description, &row.Obl, &row.Region,
			&row.DescriptionUsl, &row.Rating,
			&row.CommentID, &row.CommentDescription, &row.CommentDate, &row.CommentRating,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
