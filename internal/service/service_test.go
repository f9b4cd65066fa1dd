package service

import (
	"time"

	"github.com/blog-showcase-api/internal/config"
	"github.com/blog-showcase-api/internal/mocks"
	"github.com/blog-showcase-api/internal/models"
	"github.com/blog-showcase-api/internal/repository"
	"github.com/blog-showcase-api/internal/workflow"
	"github.com/blog-showcase-api/pkg/token"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// testEnv bundles the services under test with their backing mocks
type testEnv struct {
	services *Services
	repos    *repository.Repositories

	users      *mocks.MockUserRepository
	posts      *mocks.MockPostRepository
	projects   *mocks.MockProjectRepository
	comments   *mocks.MockCommentRepository
	ratings    *mocks.MockRatingRepository
	categories *mocks.MockCategoryRepository

	category *models.Category
}

func newTestEnv() *testEnv {
	repos, users, posts, projects, comments, ratings, categories := mocks.NewRepositories()

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			BcryptCost: 4, // minimum cost keeps tests fast
		},
	}
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	env := &testEnv{
		services:   NewServices(repos, cfg, tokens, zerolog.Nop()),
		repos:      repos,
		users:      users,
		posts:      posts,
		projects:   projects,
		comments:   comments,
		ratings:    ratings,
		categories: categories,
	}

	env.category = &models.Category{
		ID:   uuid.NewString(),
		Slug: "robotics",
		Name: "Robotics",
	}
	categories.Add(env.category)

	return env
}

func (e *testEnv) addUser(name string, staff bool, capabilities ...string) *models.User {
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        name + "@example.com",
		Name:         name,
		IsStaff:      staff,
		Capabilities: capabilities,
		CreatedAt:    time.Now(),
	}
	e.users.Users[user.ID] = user
	e.users.EmailToUser[user.Email] = user
	return user
}

func (e *testEnv) addPost(slug string, author *models.User, status models.State) *models.Post {
	post := &models.Post{
		ID:          uuid.NewString(),
		Slug:        slug,
		Title:       slug,
		Excerpt:     "excerpt",
		Body:        "body",
		AuthorID:    author.ID,
		SubmittedBy: author.ID,
		CategoryID:  e.category.ID,
		Difficulty:  models.DifficultyBeginner,
		Status:      status,
		Version:     1,
		ReadingTime: 1,
		CreatedAt:   time.Now(),
	}
	if status == models.StatePublished {
		at := time.Now().Add(-time.Hour)
		post.PublishedAt = &at
	}
	e.posts.Posts[post.ID] = post
	e.posts.SlugToPost[post.Slug] = post
	return post
}

func (e *testEnv) addProject(slug string, submitter *models.User, status models.State) *models.Project {
	project := &models.Project{
		ID:          uuid.NewString(),
		Slug:        slug,
		Title:       slug,
		Description: "description",
		ProjectType: "robotics",
		Progress:    "development",
		Status:      status,
		SubmittedBy: submitter.ID,
		StartDate:   time.Now().AddDate(0, -1, 0),
		CreatedAt:   time.Now(),
	}
	if status == models.StatePublished {
		at := time.Now().Add(-time.Hour)
		project.PublishedAt = &at
	}
	e.projects.Projects[project.ID] = project
	e.projects.SlugToProject[project.Slug] = project
	return project
}

func (e *testEnv) publisher(name string) *models.User {
	return e.addUser(name, false, workflow.CapabilityPublishPost, workflow.CapabilityPublishProject)
}
