package models

import (
	"time"
)

// Comment represents a comment on a published post. Comments form a tree via
// ParentID with unbounded depth. IsApproved defaults to true and no workflow
// path ever clears it; comments are effectively unmoderated.
type Comment struct {
	ID         string    `json:"id" db:"id"`
	PostID     string    `json:"post_id" db:"post_id"`
	ParentID   *string   `json:"parent_id,omitempty" db:"parent_id"`
	AuthorID   string    `json:"author_id" db:"author_id"`
	Body       string    `json:"body" db:"body"`
	IsApproved bool      `json:"is_approved" db:"is_approved"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// CommentNode is a comment with its nested replies for the read side
type CommentNode struct {
	*Comment
	Author  *PublicUser    `json:"author,omitempty"`
	Replies []*CommentNode `json:"replies,omitempty"`
}

// MaxCommentLength is the maximum allowed characters in a comment body
const MaxCommentLength = 4000
