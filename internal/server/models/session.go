package models

import "time"

// Session is the server-side record behind a browser cookie. An empty
// UserID means the session is anonymous. CSRFToken holds the pending
// anti-forgery token, empty when none is outstanding.
type Session struct {
	ID        string
	UserID    string
	CSRFToken string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}
