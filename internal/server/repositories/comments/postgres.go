package comments

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/placerate/internal/dbx"
	"github.com/dmitrijs2005/placerate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query := `
		INSERT INTO comments (card_id, description, created_at, rating)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		comment.CardID, comment.Description, comment.Date, comment.Rating).Scan(&comment.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comment, nil
}

func (r *PostgresRepository) ListByCard(ctx context.Context, cardID string) ([]*models.Comment, error) {
	query := `
		SELECT id, card_id, description, created_at, rating
		FROM comments
		WHERE card_id = $1
		ORDER BY seq
	`
	rows, err := r.db.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to select comments: %w", err)
	}
	defer rows.Close()

	result := []*models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.CardID, &c.Description, &c.Date, &c.Rating); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
