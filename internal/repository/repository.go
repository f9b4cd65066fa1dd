package repository

import (
	"context"
	"time"

	"github.com/blog-showcase-api/internal/database"
	"github.com/blog-showcase-api/internal/models"
)

// PostFilter narrows post listings. Zero values mean "no filter".
type PostFilter struct {
	Status       models.State
	CategorySlug string
	Tag          string
	Difficulty   string
	Search       string
	AuthorID     string
	Page         int
	Limit        int
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	GrantCapability(ctx context.Context, userID, capability string) error
	Count(ctx context.Context) (int, error)
}

// PostRepository defines the interface for post data operations.
// Publish and UpdateContent apply their whole transition in one guarded
// statement so concurrent writers cannot interleave partial field updates.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter PostFilter) ([]*models.Post, int64, error)
	ListPending(ctx context.Context) ([]*models.Post, error)
	// Publish transitions pending -> published atomically. Returns false when
	// no row was in pending state (already published, draft, or missing).
	Publish(ctx context.Context, id string, at time.Time) (bool, error)
	// UpdateContent persists an edit, including any version bump, as one write
	UpdateContent(ctx context.Context, post *models.Post) error
	IncrementViews(ctx context.Context, id string) error
	// NextPublished and PreviousPublished locate the adjacent published
	// posts in creation order, for reader navigation.
	NextPublished(ctx context.Context, createdAt time.Time, excludeID string) (*models.Post, error)
	PreviousPublished(ctx context.Context, createdAt time.Time, excludeID string) (*models.Post, error)
	ListSimilar(ctx context.Context, categoryID, excludeID string, limit int) ([]*models.Post, error)
	PopularTags(ctx context.Context, limit int) ([]models.TagCount, error)
	CountByStatus(ctx context.Context, status models.State) (int, error)
}

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, projectType, progress string, approvedOnly bool, page, limit int) ([]*models.Project, int64, error)
	ListPending(ctx context.Context) ([]*models.Project, error)
	// Approve transitions pending -> published atomically, same contract as
	// PostRepository.Publish.
	Approve(ctx context.Context, id string, at time.Time) (bool, error)
	CountApproved(ctx context.Context) (int, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	Count(ctx context.Context) (int, error)
}

// RatingRepository defines the interface for rating data operations
type RatingRepository interface {
	// Upsert inserts or overwrites the (post, user) rating in one statement
	Upsert(ctx context.Context, rating *models.Rating) error
	Get(ctx context.Context, postID, userID string) (*models.Rating, error)
	Stats(ctx context.Context, postID string) (*models.RatingStats, error)
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	List(ctx context.Context) ([]*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User     UserRepository
	Post     PostRepository
	Project  ProjectRepository
	Comment  CommentRepository
	Rating   RatingRepository
	Category CategoryRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepo(db),
		Post:     NewPostRepo(db),
		Project:  NewProjectRepo(db),
		Comment:  NewCommentRepo(db),
		Rating:   NewRatingRepo(db),
		Category: NewCategoryRepo(db),
	}
}
