package models

import "database/sql"

// Card is a catalog entry describing a place. Rating is derived from the
// card's comments and is only written by the rating aggregator.
type Card struct {
	ID             string
	UserID         string
	URLImg         string
	Name           string
	Description    string
	Obl            string
	Region         string
	DescriptionUsl string
	Rating         float64
}

// CardView is a card with its comments embedded, in insertion order.
type CardView struct {
	Card
	Comments []CommentView
}

// CardCommentRow is one row of the cards LEFT JOIN comments read. The
// comment columns are NULL for a card without comments.
type CardCommentRow struct {
	Card
	CommentID          sql.NullString
	CommentDescription sql.NullString
	CommentDate        sql.NullTime
	CommentRating      sql.NullFloat64
}
