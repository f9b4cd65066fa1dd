package models

import (
	"time"
)

// Category groups posts for browsing
type Category struct {
	ID          string    `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Icon        string    `json:"icon" db:"icon"`
	Color       string    `json:"color" db:"color"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	// PostCount is the number of published posts in the category, filled by
	// list queries only.
	PostCount int `json:"post_count" db:"-"`
}

// TagCount is an aggregated tag with its published-post usage count
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
