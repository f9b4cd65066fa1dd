package models

import (
	"time"
)

// Rating is a 1-5 score a user gives a post. Uniqueness is enforced on the
// (post_id, user_id) pair; re-rating overwrites the previous score.
type Rating struct {
	PostID    string    `json:"post_id" db:"post_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RatingStats aggregates the ratings of a post
type RatingStats struct {
	Average *float64 `json:"average,omitempty"`
	Count   int      `json:"count"`
}
