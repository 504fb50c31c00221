// Package models holds the server-side domain types persisted by the
// repositories.
package models

import "time"

// User is an account identified only by email; there is no password,
// sign-in happens through one-time emailed login codes.
type User struct {
	ID        string
	Email     string
	CreatedAt time.Time
}
