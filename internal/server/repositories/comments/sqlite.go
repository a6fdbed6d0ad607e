package comments

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/placerate/internal/dbx"
	"github.com/dmitrijs2005/placerate/internal/server/models"
	"github.com/google/uuid"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query := `INSERT INTO comments (id, card_id, description, created_at, rating) VALUES (?, ?, ?, ?, ?)`

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, query,
		id, comment.CardID, comment.Description, dbx.FormatTime(comment.Date), comment.Rating)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	comment.ID = id
	return comment, nil
}

func (r *SQLiteRepository) ListByCard(ctx context.Context, cardID string) ([]*models.Comment, error) {
	query := `SELECT id, card_id, description, created_at, rating FROM comments WHERE card_id = ? ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to select comments: %w", err)
	}
	defer rows.Close()

	result := []*models.Comment{}
	for rows.Next() {
		var (
			c    models.Comment
			date string
		)
		if err := rows.Scan(&c.ID, &c.CardID, &c.Description, &date, &c.Rating); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if c.Date, err = dbx.ParseTime(date); err != nil {
			return nil, fmt.Errorf("bad comment date %q: %w", date, err)
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
