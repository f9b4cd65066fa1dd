package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/blog-showcase-api/internal/database"
	"github.com/blog-showcase-api/internal/models"
)

const postColumns = `id, slug, title, excerpt, body, author_id, submitted_by, category_id, tags,
		difficulty, status, version, previous_version_id, views_count, reading_time,
		published_at, created_at, updated_at`

// postRepo is the concrete implementation of PostRepository
type postRepo struct {
	db *database.DB
}

// NewPostRepo creates a new post repository
func NewPostRepo(db *database.DB) PostRepository {
	return &postRepo{db: db}
}

// Create inserts a new post
func (r *postRepo) Create(ctx context.Context, post *models.Post) error {
	tagsJSON, _ := json.Marshal(post.Tags)
	if post.Tags == nil {
		tagsJSON = []byte("[]")
	}

	query := `
		INSERT INTO posts (id, slug, title, excerpt, body, author_id, submitted_by, category_id, tags,
			difficulty, status, version, previous_version_id, views_count, reading_time,
			published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.Slug, post.Title, post.Excerpt, post.Body, post.AuthorID, post.SubmittedBy,
		post.CategoryID, tagsJSON, post.Difficulty, post.Status, post.Version,
		post.PreviousVersionID, post.ViewsCount, post.ReadingTime,
		post.PublishedAt, post.CreatedAt, time.Now(),
	)
	return err
}

// GetBySlug retrieves a post by slug regardless of status; visibility is the
// caller's concern.
func (r *postRepo) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

// SlugExists checks if a post with the given slug exists
func (r *postRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)", slug).Scan(&exists)
	return exists, err
}

// List retrieves posts matching the filter with pagination
func (r *postRepo) List(ctx context.Context, filter PostFilter) ([]*models.Post, int64, error) {
	var conds []string
	var args []interface{}

	add := func(cond string, val interface{}) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		add("p.status = $%d", string(filter.Status))
	}
	if filter.CategorySlug != "" {
		add("p.category_id = (SELECT id FROM categories WHERE slug = $%d)", filter.CategorySlug)
	}
	if filter.Tag != "" {
		add("p.tags::jsonb ? $%d", filter.Tag)
	}
	if filter.Difficulty != "" {
		add("p.difficulty = $%d", filter.Difficulty)
	}
	if filter.AuthorID != "" {
		add("p.author_id = $%d", filter.AuthorID)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(p.title ILIKE $%d OR p.excerpt ILIKE $%d OR p.body ILIKE $%d)", n, n, n))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts p"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)
	query := fmt.Sprintf("SELECT %s FROM posts p%s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d",
		prefixColumns("p"), where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts, err := r.scanAll(rows)
	return posts, total, err
}

// ListPending retrieves all posts awaiting approval in storage order
func (r *postRepo) ListPending(ctx context.Context) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE status = $1`
	rows, err := r.db.QueryContext(ctx, query, models.StatePending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Publish transitions pending -> published as one guarded statement. The
// status check in the WHERE clause makes concurrent approvals safe: only one
// writer can move the row, and a published row keeps its first timestamp.
func (r *postRepo) Publish(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE posts SET status = $1, published_at = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`, models.StatePublished, at, time.Now(), id, models.StatePending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// UpdateContent persists an edit. Status, published_at and version are taken
// from the post as the state machine left them, written in a single statement.
func (r *postRepo) UpdateContent(ctx context.Context, post *models.Post) error {
	tagsJSON, _ := json.Marshal(post.Tags)
	if post.Tags == nil {
		tagsJSON = []byte("[]")
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE posts
		SET title = $1, excerpt = $2, body = $3, category_id = $4, tags = $5,
			difficulty = $6, status = $7, version = $8, reading_time = $9,
			published_at = $10, updated_at = $11
		WHERE id = $12
	`, post.Title, post.Excerpt, post.Body, post.CategoryID, tagsJSON,
		post.Difficulty, post.Status, post.Version, post.ReadingTime,
		post.PublishedAt, time.Now(), post.ID)
	return err
}

// IncrementViews bumps the view counter without touching updated_at
func (r *postRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE posts SET views_count = views_count + 1 WHERE id = $1", id)
	return err
}

// NextPublished retrieves the first published post created after the given
// timestamp
func (r *postRepo) NextPublished(ctx context.Context, createdAt time.Time, excludeID string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts
		WHERE status = $1 AND created_at > $2 AND id <> $3
		ORDER BY created_at ASC LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, models.StatePublished, createdAt, excludeID))
}

// PreviousPublished retrieves the last published post created before the
// given timestamp
func (r *postRepo) PreviousPublished(ctx context.Context, createdAt time.Time, excludeID string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts
		WHERE status = $1 AND created_at < $2 AND id <> $3
		ORDER BY created_at DESC LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, models.StatePublished, createdAt, excludeID))
}

// ListSimilar retrieves published posts sharing a category
func (r *postRepo) ListSimilar(ctx context.Context, categoryID, excludeID string, limit int) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts
		WHERE category_id = $1 AND id <> $2 AND status = $3
		ORDER BY created_at DESC LIMIT $4`
	rows, err := r.db.QueryContext(ctx, query, categoryID, excludeID, models.StatePublished, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// PopularTags aggregates tag usage over published posts
func (r *postRepo) PopularTags(ctx context.Context, limit int) ([]models.TagCount, error) {
	query := `
		SELECT t.tag, COUNT(*) AS uses
		FROM posts p, jsonb_array_elements_text(p.tags::jsonb) AS t(tag)
		WHERE p.status = $1
		GROUP BY t.tag
		ORDER BY uses DESC, t.tag
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, models.StatePublished, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.TagCount
	for rows.Next() {
		var tc models.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		tags = append(tags, tc)
	}
	return tags, rows.Err()
}

// CountByStatus returns the number of posts in the given state
func (r *postRepo) CountByStatus(ctx context.Context, status models.State) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts WHERE status = $1", status).Scan(&count)
	return count, err
}

func prefixColumns(alias string) string {
	cols := strings.Split(postColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postRepo) scanOne(row rowScanner) (*models.Post, error) {
	var post models.Post
	var tagsJSON []byte
	var previousVersion sql.NullString
	var publishedAt sql.NullTime

	err := row.Scan(
		&post.ID, &post.Slug, &post.Title, &post.Excerpt, &post.Body,
		&post.AuthorID, &post.SubmittedBy, &post.CategoryID, &tagsJSON,
		&post.Difficulty, &post.Status, &post.Version, &previousVersion,
		&post.ViewsCount, &post.ReadingTime, &publishedAt,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	json.Unmarshal(tagsJSON, &post.Tags)
	if previousVersion.Valid {
		post.PreviousVersionID = &previousVersion.String
	}
	if publishedAt.Valid {
		post.PublishedAt = &publishedAt.Time
	}
	return &post, nil
}

func (r *postRepo) scanAll(rows *sql.Rows) ([]*models.Post, error) {
	var posts []*models.Post
	for rows.Next() {
		post, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
