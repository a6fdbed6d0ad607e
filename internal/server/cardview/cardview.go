// Package cardview rebuilds nested card documents from the flat rows of a
// cards LEFT JOIN comments read.
package cardview

import "github.com/dmitrijs2005/placerate/internal/server/models"

// Reconstruct groups rows by card id into CardViews. Cards appear in the
// order their first row appears, and each card's comments keep row order.
// A row whose comment id is NULL contributes the card only, so a card
// without comments gets an empty, non-nil Comments slice.
func Reconstruct(rows []models.CardCommentRow) []*models.CardView {
	result := make([]*models.CardView, 0)
	byID := make(map[string]*models.CardView)

	for _, row := range rows {
		view, ok := byID[row.ID]
		if !ok {
			view = &models.CardView{Card: row.Card, Comments: []models.CommentView{}}
			byID[row.ID] = view
			result = append(result, view)
		}
		if !row.CommentID.Valid {
			continue
		}
		view.Comments = append(view.Comments, models.CommentView{
			ID:          row.CommentID.String,
			Description: row.CommentDescription.String,
			Date:        row.CommentDate.Time,
			Rating:      row.CommentRating.Float64,
		})
	}
	return result
}
