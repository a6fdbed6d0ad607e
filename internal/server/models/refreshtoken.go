package models

import "time"

// RefreshToken is a server-stored opaque token exchanged for a new access token.
type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}
