// Package mocks provides in-memory repository implementations for tests.
package mocks

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/blog-showcase-api/internal/models"
	"github.com/blog-showcase-api/internal/repository"
)

// MockUserRepository is a mock implementation of repository.UserRepository
type MockUserRepository struct {
	Users       map[string]*models.User
	EmailToUser map[string]*models.User
	InsertError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:       make(map[string]*models.User),
		EmailToUser: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.Users[user.ID] = user
	m.EmailToUser[user.Email] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.Users[id], nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.EmailToUser[email], nil
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, exists := m.EmailToUser[email]
	return exists, nil
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	stored, ok := m.Users[user.ID]
	if !ok {
		return nil
	}
	stored.Name = user.Name
	stored.Bio = user.Bio
	stored.Website = user.Website
	stored.GithubURL = user.GithubURL
	return nil
}

func (m *MockUserRepository) GrantCapability(ctx context.Context, userID, capability string) error {
	user, ok := m.Users[userID]
	if !ok {
		return nil
	}
	if !user.HasCapability(capability) {
		user.Capabilities = append(user.Capabilities, capability)
	}
	return nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	return len(m.Users), nil
}

// MockPostRepository is a mock implementation of repository.PostRepository
type MockPostRepository struct {
	Posts       map[string]*models.Post // keyed by ID
	SlugToPost  map[string]*models.Post
	InsertError error
	UpdateError error
	// Categories resolves category slugs for list filtering
	Categories *MockCategoryRepository
	// PublishCalls counts guarded publish attempts, including no-ops
	PublishCalls int
}

func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{
		Posts:      make(map[string]*models.Post),
		SlugToPost: make(map[string]*models.Post),
	}
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	cp := *post
	m.Posts[post.ID] = &cp
	m.SlugToPost[post.Slug] = &cp
	return nil
}

func (m *MockPostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post, ok := m.SlugToPost[slug]
	if !ok {
		return nil, nil
	}
	cp := *post
	return &cp, nil
}

func (m *MockPostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, exists := m.SlugToPost[slug]
	return exists, nil
}

func (m *MockPostRepository) List(ctx context.Context, filter repository.PostFilter) ([]*models.Post, int64, error) {
	var matched []*models.Post
	for _, p := range m.Posts {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.CategorySlug != "" && p.CategoryID != m.categoryID(filter.CategorySlug) {
			continue
		}
		if filter.Difficulty != "" && p.Difficulty != filter.Difficulty {
			continue
		}
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		if filter.Tag != "" && !hasTag(p.Tags, filter.Tag) {
			continue
		}
		if filter.Search != "" && !matchesSearch(p, filter.Search) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// matchesSearch mirrors the ILIKE substring match over title, excerpt and body
func matchesSearch(p *models.Post, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Excerpt), term) ||
		strings.Contains(strings.ToLower(p.Body), term)
}

func (m *MockPostRepository) categoryID(slug string) string {
	if m.Categories == nil {
		return ""
	}
	for _, c := range m.Categories.Categories {
		if c.Slug == slug {
			return c.ID
		}
	}
	return ""
}

func (m *MockPostRepository) ListPending(ctx context.Context) ([]*models.Post, error) {
	var pending []*models.Post
	for _, p := range m.Posts {
		if p.Status == models.StatePending {
			pending = append(pending, p)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })
	return pending, nil
}

func (m *MockPostRepository) Publish(ctx context.Context, id string, at time.Time) (bool, error) {
	m.PublishCalls++
	post, ok := m.Posts[id]
	if !ok || post.Status != models.StatePending {
		return false, nil
	}
	post.Status = models.StatePublished
	post.PublishedAt = &at
	return true, nil
}

func (m *MockPostRepository) UpdateContent(ctx context.Context, post *models.Post) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	stored, ok := m.Posts[post.ID]
	if !ok {
		return nil
	}
	cp := *post
	cp.Slug = stored.Slug // slug is immutable
	m.Posts[post.ID] = &cp
	m.SlugToPost[cp.Slug] = &cp
	return nil
}

func (m *MockPostRepository) IncrementViews(ctx context.Context, id string) error {
	if post, ok := m.Posts[id]; ok {
		post.ViewsCount++
	}
	return nil
}

func (m *MockPostRepository) NextPublished(ctx context.Context, createdAt time.Time, excludeID string) (*models.Post, error) {
	var next *models.Post
	for _, p := range m.Posts {
		if p.Status != models.StatePublished || p.ID == excludeID || !p.CreatedAt.After(createdAt) {
			continue
		}
		if next == nil || p.CreatedAt.Before(next.CreatedAt) {
			next = p
		}
	}
	return next, nil
}

func (m *MockPostRepository) PreviousPublished(ctx context.Context, createdAt time.Time, excludeID string) (*models.Post, error) {
	var prev *models.Post
	for _, p := range m.Posts {
		if p.Status != models.StatePublished || p.ID == excludeID || !p.CreatedAt.Before(createdAt) {
			continue
		}
		if prev == nil || p.CreatedAt.After(prev.CreatedAt) {
			prev = p
		}
	}
	return prev, nil
}

func (m *MockPostRepository) ListSimilar(ctx context.Context, categoryID, excludeID string, limit int) ([]*models.Post, error) {
	var similar []*models.Post
	for _, p := range m.Posts {
		if p.CategoryID == categoryID && p.ID != excludeID && p.Status == models.StatePublished {
			similar = append(similar, p)
		}
		if len(similar) == limit {
			break
		}
	}
	return similar, nil
}

func (m *MockPostRepository) PopularTags(ctx context.Context, limit int) ([]models.TagCount, error) {
	counts := make(map[string]int)
	for _, p := range m.Posts {
		if p.Status != models.StatePublished {
			continue
		}
		for _, t := range p.Tags {
			counts[t]++
		}
	}
	var tags []models.TagCount
	for t, c := range counts {
		tags = append(tags, models.TagCount{Tag: t, Count: c})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}

func (m *MockPostRepository) CountByStatus(ctx context.Context, status models.State) (int, error) {
	count := 0
	for _, p := range m.Posts {
		if p.Status == status {
			count++
		}
	}
	return count, nil
}

// MockProjectRepository is a mock implementation of repository.ProjectRepository
type MockProjectRepository struct {
	Projects      map[string]*models.Project
	SlugToProject map[string]*models.Project
	InsertError   error
}

func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{
		Projects:      make(map[string]*models.Project),
		SlugToProject: make(map[string]*models.Project),
	}
}

func (m *MockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	cp := *project
	m.Projects[project.ID] = &cp
	m.SlugToProject[project.Slug] = &cp
	return nil
}

func (m *MockProjectRepository) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	project, ok := m.SlugToProject[slug]
	if !ok {
		return nil, nil
	}
	cp := *project
	return &cp, nil
}

func (m *MockProjectRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, exists := m.SlugToProject[slug]
	return exists, nil
}

func (m *MockProjectRepository) List(ctx context.Context, projectType, progress string, approvedOnly bool, page, limit int) ([]*models.Project, int64, error) {
	var matched []*models.Project
	for _, p := range m.Projects {
		if approvedOnly && p.Status != models.StatePublished {
			continue
		}
		if projectType != "" && p.ProjectType != projectType {
			continue
		}
		if progress != "" && p.Progress != progress {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].IsFeatured != matched[j].IsFeatured {
			return matched[i].IsFeatured
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *MockProjectRepository) ListPending(ctx context.Context) ([]*models.Project, error) {
	var pending []*models.Project
	for _, p := range m.Projects {
		if p.Status == models.StatePending {
			pending = append(pending, p)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })
	return pending, nil
}

func (m *MockProjectRepository) Approve(ctx context.Context, id string, at time.Time) (bool, error) {
	project, ok := m.Projects[id]
	if !ok || project.Status != models.StatePending {
		return false, nil
	}
	project.Status = models.StatePublished
	project.PublishedAt = &at
	return true, nil
}

func (m *MockProjectRepository) CountApproved(ctx context.Context) (int, error) {
	count := 0
	for _, p := range m.Projects {
		if p.Status == models.StatePublished {
			count++
		}
	}
	return count, nil
}

// MockCommentRepository is a mock implementation of repository.CommentRepository
type MockCommentRepository struct {
	Comments    map[string]*models.Comment
	InsertError error
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{Comments: make(map[string]*models.Comment)}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.Comments[comment.ID] = comment
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return m.Comments[id], nil
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	for _, c := range m.Comments {
		if c.PostID == postID && c.IsApproved {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	return len(m.Comments), nil
}

// MockRatingRepository is a mock implementation of repository.RatingRepository
type MockRatingRepository struct {
	// Ratings keyed by post ID then user ID
	Ratings map[string]map[string]*models.Rating
}

func NewMockRatingRepository() *MockRatingRepository {
	return &MockRatingRepository{Ratings: make(map[string]map[string]*models.Rating)}
}

func (m *MockRatingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	byUser, ok := m.Ratings[rating.PostID]
	if !ok {
		byUser = make(map[string]*models.Rating)
		m.Ratings[rating.PostID] = byUser
	}
	byUser[rating.UserID] = rating
	return nil
}

func (m *MockRatingRepository) Get(ctx context.Context, postID, userID string) (*models.Rating, error) {
	if byUser, ok := m.Ratings[postID]; ok {
		return byUser[userID], nil
	}
	return nil, nil
}

func (m *MockRatingRepository) Stats(ctx context.Context, postID string) (*models.RatingStats, error) {
	byUser := m.Ratings[postID]
	stats := &models.RatingStats{Count: len(byUser)}
	if len(byUser) > 0 {
		sum := 0
		for _, r := range byUser {
			sum += r.Rating
		}
		avg := float64(sum) / float64(len(byUser))
		stats.Average = &avg
	}
	return stats, nil
}

// MockCategoryRepository is a mock implementation of repository.CategoryRepository
type MockCategoryRepository struct {
	Categories map[string]*models.Category // keyed by ID
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{Categories: make(map[string]*models.Category)}
}

func (m *MockCategoryRepository) Add(category *models.Category) {
	m.Categories[category.ID] = category
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	for _, c := range m.Categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (m *MockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	for _, c := range m.Categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return m.Categories[id], nil
}

func (m *MockCategoryRepository) Count(ctx context.Context) (int, error) {
	return len(m.Categories), nil
}

// NewRepositories bundles all mocks into a repository set for service tests
func NewRepositories() (*repository.Repositories, *MockUserRepository, *MockPostRepository, *MockProjectRepository, *MockCommentRepository, *MockRatingRepository, *MockCategoryRepository) {
	users := NewMockUserRepository()
	posts := NewMockPostRepository()
	projects := NewMockProjectRepository()
	comments := NewMockCommentRepository()
	ratings := NewMockRatingRepository()
	categories := NewMockCategoryRepository()
	posts.Categories = categories

	repos := &repository.Repositories{
		User:     users,
		Post:     posts,
		Project:  projects,
		Comment:  comments,
		Rating:   ratings,
		Category: categories,
	}
	return repos, users, posts, projects, comments, ratings, categories
}
