package cards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/placerate/internal/common"
	"github.com/dmitrijs2005/placerate/internal/dbx"
	"github.com/dmitrijs2005/placerate/internal/server/models"
	"github.com/google/uuid"
)

// SQLiteRepository implements Repository for the embedded store.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, card *models.Card) (*models.Card, error) {
	query := `INSERT INTO cards (id, user_id, url_img, name, description, obl, region, descriptionusl, rating)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, query,
		id, card.UserID, card.URLImg, card.Name, card.Description, card.Obl, card.Region, card.DescriptionUsl, card.Rating)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	card.ID = id
	return card, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Card, error) {
	query := `SELECT id, user_id, url_img, name, description, obl, region, descriptionusl, rating
		FROM cards WHERE id = ?`
	return scanCard(r.db.QueryRowContext(ctx, query, id))
}

// LockForUpdate only checks existence: SQLite has no row locks, and a write
// transaction already excludes other writers.
func (r *SQLiteRepository) LockForUpdate(ctx context.Context, id string) error {
	var found string
	if err := r.db.QueryRowContext(ctx, `SELECT id FROM cards WHERE id = ?`, id).Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE cards SET rating = ? WHERE id = ?`, rating, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

const sqliteJoinQuery = `
	SELECT c.id, c.user_id, c.url_img, c.name, c.description, c.obl, c.region, c.descriptionusl, c.rating,
	       m.id, m.description, m.created_at, m.rating
	FROM cards c
	LEFT JOIN comments m ON m.card_id = c.id
`

func (r *SQLiteRepository) ListWithComments(ctx context.Context) ([]models.CardCommentRow, error) {
	return r.selectJoined(ctx, sqliteJoinQuery+` ORDER BY c.seq, m.seq`)
}

func (r *SQLiteRepository) GetWithComments(ctx context.Context, id string) ([]models.CardCommentRow, error) {
	rows, err := r.selectJoined(ctx, sqliteJoinQuery+` WHERE c.id = ? ORDER BY m.seq`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, common.ErrorNotFound
	}
	return rows, nil
}

func (r *SQLiteRepository) selectJoined(ctx context.Context, query string, args ...any) ([]models.CardCommentRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select cards: %w", err)
	}
	defer rows.Close()

	var result []models.CardCommentRow
	for rows.Next() {
		var (
			row  models.CardCommentRow
			date sql.NullString
		)
		if err := rows.Scan(
			&row.ID, &row.UserID, &row.URLImg, &row.Name, &row.Description, &row.Obl, &row.Region,
			&row.DescriptionUsl, &row.Rating,
			&row.CommentID, &row.CommentDescription, &date, &row.CommentRating,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if date.Valid {
			t, err := dbx.ParseTime(date.String)
			if err != nil {
				return nil, fmt.Errorf("bad comment date %q: %w", date.String, err)
			}
			row.CommentDate = sql.NullTime{Time: t, Valid: true}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
