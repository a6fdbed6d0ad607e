// Package models defines the server-side records persisted in the database
// and the read models assembled from them.
package models

// RoleAdmin may delete any card.
const RoleAdmin = "admin"

// User is a registered account. PasswordHash is a bcrypt digest; the
// plaintext password is never stored.
type User struct {
	ID           string
	Name         string
	PasswordHash string
	Number       string
	Email        string
	Role         string
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
