package models

import "time"

// Token is an opaque bearer credential bound to one user. It is never
// mutated after creation and disappears only when revoked.
type Token struct {
	ID        string    `json:"-"`
	Value     string    `json:"token"`
	UserID    string    `json:"userID"`
	CreatedAt time.Time `json:"-"`
}
