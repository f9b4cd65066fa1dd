package models

import (
	"strings"
	"time"
)

// Difficulty levels for tutorial posts
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
	DifficultyExpert       = "expert"
)

// ValidDifficulties defines allowed difficulty levels
var ValidDifficulties = map[string]bool{
	DifficultyBeginner:     true,
	DifficultyIntermediate: true,
	DifficultyAdvanced:     true,
	DifficultyExpert:       true,
}

// Post represents a blog/tutorial article subject to the publication workflow
type Post struct {
	ID                string     `json:"id" db:"id"`
	Slug              string     `json:"slug" db:"slug"`
	Title             string     `json:"title" db:"title"`
	Excerpt           string     `json:"excerpt" db:"excerpt"`
	Body              string     `json:"body" db:"body"`
	AuthorID          string     `json:"author_id" db:"author_id"`
	SubmittedBy       string     `json:"submitted_by" db:"submitted_by"`
	CategoryID        string     `json:"category_id" db:"category_id"`
	Tags              []string   `json:"tags" db:"-"` // Stored as JSON string in DB
	Difficulty        string     `json:"difficulty" db:"difficulty"`
	Status            State      `json:"status" db:"status"`
	Version           int        `json:"version" db:"version"`
	PreviousVersionID *string    `json:"previous_version_id,omitempty" db:"previous_version_id"`
	ViewsCount        int        `json:"views_count" db:"views_count"`
	ReadingTime       int        `json:"reading_time" db:"reading_time"` // minutes
	PublishedAt       *time.Time `json:"published_at,omitempty" db:"published_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// EstimateReadingTime returns the reading time in minutes for a post body,
// assuming 200 words per minute, never less than one minute.
func EstimateReadingTime(body string) int {
	words := len(strings.Fields(body))
	if minutes := words / 200; minutes > 1 {
		return minutes
	}
	return 1
}

// PostDetail is the read-side response for a single post
type PostDetail struct {
	*Post
	BodyHTML     string      `json:"body_html"`
	Author       *PublicUser `json:"author,omitempty"`
	Category     *Category   `json:"category,omitempty"`
	AvgRating    *float64    `json:"avg_rating,omitempty"`
	RatingCount  int         `json:"rating_count"`
	UserRating   *int        `json:"user_rating,omitempty"`
	SimilarPosts []*Post     `json:"similar_posts,omitempty"`
	NextPost     *Post       `json:"next_post,omitempty"`
	PreviousPost *Post       `json:"previous_post,omitempty"`
	CanEdit      bool        `json:"can_edit"`
	// AwaitingApproval is set on pending posts shown to the owner or a
	// moderator, so the frontend can surface the approval notice.
	AwaitingApproval bool `json:"awaiting_approval,omitempty"`
}
