package models

import "time"

// Comment is a dated, rated annotation of a card. Date is assigned by the
// server at insert time.
type Comment struct {
	ID          string
	CardID      string
	Description string
	Date        time.Time
	Rating      float64
}

// CommentView is the projection of a comment embedded in a CardView.
type CommentView struct {
	ID          string
	Description string
	Date        time.Time
	Rating      float64
}
