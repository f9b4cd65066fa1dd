package repository

import (
	"context"
	"database/sql"

	"github.com/blog-showcase-api/internal/database"
	"github.com/blog-showcase-api/internal/models"
)

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Create inserts a new comment
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, parent_id, author_id, body, is_approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.PostID, comment.ParentID, comment.AuthorID,
		comment.Body, comment.IsApproved, comment.CreatedAt,
	)
	return err
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `
		SELECT id, post_id, parent_id, author_id, body, is_approved, created_at
		FROM comments WHERE id = $1
	`
	var comment models.Comment
	var parentID sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID, &comment.PostID, &parentID, &comment.AuthorID,
		&comment.Body, &comment.IsApproved, &comment.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		comment.ParentID = &parentID.String
	}
	return &comment, nil
}

// ListByPost retrieves all approved comments of a post, oldest first. Tree
// assembly happens in the service.
func (r *commentRepo) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	query := `
		SELECT id, post_id, parent_id, author_id, body, is_approved, created_at
		FROM comments WHERE post_id = $1 AND is_approved ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var comment models.Comment
		var parentID sql.NullString
		if err := rows.Scan(
			&comment.ID, &comment.PostID, &parentID, &comment.AuthorID,
			&comment.Body, &comment.IsApproved, &comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		if parentID.Valid {
			comment.ParentID = &parentID.String
		}
		comments = append(comments, &comment)
	}
	return comments, rows.Err()
}

// Count returns the total number of comments
func (r *commentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments").Scan(&count)
	return count, err
}
