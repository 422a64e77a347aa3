package domain

import "time"

// Favorite links a user to a movie they marked. At most one row exists
// per (user, movie) pair.
type Favorite struct {
	ID        int
	UserID    int
	MovieID   int
	CreatedAt time.Time
}
