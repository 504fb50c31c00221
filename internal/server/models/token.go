package models

import "time"

// LoginToken is a single-use magic-link code, stored only as a SHA-256 hash.
type LoginToken struct {
	TokenHash string
	UserID    string
	Expires   time.Time
}

// RefreshToken is a server-stored opaque token rotated on every refresh.
type RefreshToken struct {
	UserID  string
	Expires time.Time
}
