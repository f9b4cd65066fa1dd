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

const projectColumns = `id, slug, title, description, project_type, progress, status, submitted_by,
		github_url, demo_url, documentation_url, technologies, is_featured,
		start_date, end_date, published_at, created_at, updated_at`

// projectRepo is the concrete implementation of ProjectRepository
type projectRepo struct {
	db *database.DB
}

// NewProjectRepo creates a new project repository
func NewProjectRepo(db *database.DB) ProjectRepository {
	return &projectRepo{db: db}
}

// Create inserts a new project
func (r *projectRepo) Create(ctx context.Context, project *models.Project) error {
	techJSON, _ := json.Marshal(project.Technologies)
	if project.Technologies == nil {
		techJSON = []byte("[]")
	}

	query := `
		INSERT INTO projects (id, slug, title, description, project_type, progress, status, submitted_by,
			github_url, demo_url, documentation_url, technologies, is_featured,
			start_date, end_date, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := r.db.ExecContext(ctx, query,
		project.ID, project.Slug, project.Title, project.Description, project.ProjectType,
		project.Progress, project.Status, project.SubmittedBy,
		project.GithubURL, project.DemoURL, project.DocumentationURL, techJSON, project.IsFeatured,
		project.StartDate, project.EndDate, project.PublishedAt, project.CreatedAt, time.Now(),
	)
	return err
}

// GetBySlug retrieves a project by slug regardless of status
func (r *projectRepo) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE slug = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

// SlugExists checks if a project with the given slug exists
func (r *projectRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM projects WHERE slug = $1)", slug).Scan(&exists)
	return exists, err
}

// List retrieves projects, featured first, newest first
func (r *projectRepo) List(ctx context.Context, projectType, progress string, approvedOnly bool, page, limit int) ([]*models.Project, int64, error) {
	var conds []string
	var args []interface{}

	if approvedOnly {
		args = append(args, models.StatePublished)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if projectType != "" {
		args = append(args, projectType)
		conds = append(conds, fmt.Sprintf("project_type = $%d", len(args)))
	}
	if progress != "" {
		args = append(args, progress)
		conds = append(conds, fmt.Sprintf("progress = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM projects%s ORDER BY is_featured DESC, created_at DESC LIMIT $%d OFFSET $%d",
		projectColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	projects, err := r.scanAll(rows)
	return projects, total, err
}

// ListPending retrieves all projects awaiting approval in storage order
func (r *projectRepo) ListPending(ctx context.Context) ([]*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE status = $1`
	rows, err := r.db.QueryContext(ctx, query, models.StatePending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Approve transitions pending -> published in one guarded statement
func (r *projectRepo) Approve(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET status = $1, published_at = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`, models.StatePublished, at, time.Now(), id, models.StatePending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// CountApproved returns the number of approved projects
func (r *projectRepo) CountApproved(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects WHERE status = $1", models.StatePublished).Scan(&count)
	return count, err
}

func (r *projectRepo) scanOne(row rowScanner) (*models.Project, error) {
	var project models.Project
	var techJSON []byte
	var endDate, publishedAt sql.NullTime

	err := row.Scan(
		&project.ID, &project.Slug, &project.Title, &project.Description,
		&project.ProjectType, &project.Progress, &project.Status, &project.SubmittedBy,
		&project.GithubURL, &project.DemoURL, &project.DocumentationURL, &techJSON,
		&project.IsFeatured, &project.StartDate, &endDate, &publishedAt,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	json.Unmarshal(techJSON, &project.Technologies)
	if endDate.Valid {
		project.EndDate = &endDate.Time
	}
	if publishedAt.Valid {
		project.PublishedAt = &publishedAt.Time
	}
	return &project, nil
}

func (r *projectRepo) scanAll(rows *sql.Rows) ([]*models.Project, error) {
	var projects []*models.Project
	for rows.Next() {
		project, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}
