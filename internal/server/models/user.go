// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account able to own acronyms and log in. PasswordHash holds
// the bcrypt digest; the plaintext never reaches this struct.
type User struct {
	ID           string
	Name         string
	UserName     string
	PasswordHash string
	TwitterURL   *string
	CreatedAt    time.Time
}

// PublicUser is the externally visible projection of a User.
type PublicUser struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	UserName   string  `json:"username"`
	TwitterURL *string `json:"twitterURL,omitempty"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, UserName: u.UserName, TwitterURL: u.TwitterURL}
}
