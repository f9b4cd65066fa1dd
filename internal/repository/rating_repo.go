package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/blog-showcase-api/internal/database"
	"github.com/blog-showcase-api/internal/models"
)

// ratingRepo is the concrete implementation of RatingRepository
type ratingRepo struct {
	db *database.DB
}

// NewRatingRepo creates a new rating repository
func NewRatingRepo(db *database.DB) RatingRepository {
	return &ratingRepo{db: db}
}

// Upsert inserts or overwrites the (post, user) rating. The unique pair
// constraint makes re-rating a single-statement overwrite.
func (r *ratingRepo) Upsert(ctx context.Context, rating *models.Rating) error {
	query := `
		INSERT INTO ratings (post_id, user_id, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (post_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating, updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, rating.PostID, rating.UserID, rating.Rating, time.Now())
	return err
}

// Get retrieves a user's rating of a post
func (r *ratingRepo) Get(ctx context.Context, postID, userID string) (*models.Rating, error) {
	query := `
		SELECT post_id, user_id, rating, created_at, updated_at
		FROM ratings WHERE post_id = $1 AND user_id = $2
	`
	var rating models.Rating
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(
		&rating.PostID, &rating.UserID, &rating.Rating, &rating.CreatedAt, &rating.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// Stats aggregates the ratings of a post
func (r *ratingRepo) Stats(ctx context.Context, postID string) (*models.RatingStats, error) {
	var avg sql.NullFloat64
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT AVG(rating), COUNT(*) FROM ratings WHERE post_id = $1", postID,
	).Scan(&avg, &count)
	if err != nil {
		return nil, err
	}

	stats := &models.RatingStats{Count: count}
	if avg.Valid {
		stats.Average = &avg.Float64
	}
	return stats, nil
}
