package domain

import "time"

// Session is a server-side login session. Token is opaque and carries
// no user data; the row is the single source of truth.
type Session struct {
	Token     string
	UserID    int
	ExpiresAt time.Time
}
