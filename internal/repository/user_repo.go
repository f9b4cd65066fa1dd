package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/blog-showcase-api/internal/database"
	"github.com/blog-showcase-api/internal/models"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

// Create inserts a new user
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, bio, website, github_url,
			is_staff, is_superuser, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Bio, user.Website,
		user.GithubURL, user.IsStaff, user.IsSuperuser, user.CreatedAt, time.Now(),
	)
	return err
}

// UpdateProfile persists the user-editable profile fields
func (r *userRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET name = $1, bio = $2, website = $3, github_url = $4, updated_at = $5
		WHERE id = $6
	`, user.Name, user.Bio, user.Website, user.GithubURL, time.Now(), user.ID)
	return err
}

// GetByID retrieves a user with their capability grants
func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "id = $1", id)
}

// GetByEmail retrieves a user with their capability grants
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email = $1", email)
}

func (r *userRepo) getBy(ctx context.Context, cond, arg string) (*models.User, error) {
	query := `
		SELECT id, email, name, password_hash, bio, website, github_url,
			is_staff, is_superuser, created_at, updated_at
		FROM users WHERE ` + cond

	var user models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Bio,
		&user.Website, &user.GithubURL, &user.IsStaff, &user.IsSuperuser,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	caps, err := r.capabilities(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Capabilities = caps

	return &user, nil
}

func (r *userRepo) capabilities(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.name FROM capabilities c
		JOIN user_capabilities uc ON uc.capability_id = c.id
		WHERE uc.user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var caps []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		caps = append(caps, name)
	}
	return caps, rows.Err()
}

// EmailExists checks if a user with the given email exists
func (r *userRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))", email).Scan(&exists)
	return exists, err
}

// GrantCapability grants a named capability to a user, idempotently
func (r *userRepo) GrantCapability(ctx context.Context, userID, capability string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_capabilities (user_id, capability_id)
		SELECT $1, id FROM capabilities WHERE name = $2
		ON CONFLICT DO NOTHING
	`, userID, capability)
	return err
}

// Count returns the total number of users
func (r *userRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
