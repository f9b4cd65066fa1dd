package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blog-showcase-api/internal/common"
	"github.com/blog-showcase-api/internal/models"
	"github.com/blog-showcase-api/internal/repository"
	"github.com/blog-showcase-api/internal/validation"
	"github.com/blog-showcase-api/internal/workflow"
	"github.com/google/uuid"
)

func postInput(env *testEnv, title string) *validation.PostInput {
	return &validation.PostInput{
		Title:      title,
		Excerpt:    "A short excerpt",
		Body:       "Some body text with enough words to count.",
		CategoryID: env.category.ID,
		Tags:       []string{"go", "testing"},
		Difficulty: models.DifficultyBeginner,
	}
}

func TestCreatePostWithoutCapabilityEntersPending(t *testing.T) {
	env := newTestEnv()
	author := env.addUser("alice", false)

	result, err := env.services.Post.Create(context.Background(), postInput(env, "My First Post"), author)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if result.Outcome != workflow.OutcomeSubmitted {
		t.Errorf("Expected outcome submitted, got %s", result.Outcome)
	}
	if result.Post.Status != models.StatePending {
		t.Errorf("Expected status pending, got %s", result.Post.Status)
	}
	if result.Post.PublishedAt != nil {
		t.Error("Pending post should have no published_at")
	}
	if result.Post.Slug != "my-first-post" {
		t.Errorf("Expected slug my-first-post, got %s", result.Post.Slug)
	}

	stored, _ := env.posts.GetBySlug(context.Background(), "my-first-post")
	if stored == nil || stored.Status != models.StatePending {
		t.Error("Pending post was not persisted")
	}
}

func TestCreatePostWithCapabilityPublishesImmediately(t *testing.T) {
	env := newTestEnv()
	author := env.publisher("bob")

	result, err := env.services.Post.Create(context.Background(), postInput(env, "Straight To Live"), author)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if result.Outcome != workflow.OutcomePublished {
		t.Errorf("Expected outcome published, got %s", result.Outcome)
	}
	if result.Post.Status != models.StatePublished {
		t.Errorf("Expected status published, got %s", result.Post.Status)
	}
	if result.Post.PublishedAt == nil {
		t.Error("Published post must have published_at set")
	}
}

func TestCreatePostStaffPublishesImmediately(t *testing.T) {
	env := newTestEnv()
	admin := env.addUser("admin", true)

	result, err := env.services.Post.Create(context.Background(), postInput(env, "Admin Post"), admin)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if result.Outcome != workflow.OutcomePublished {
		t.Errorf("Expected staff submission to publish, got %s", result.Outcome)
	}
}

func TestCreatePostValidationWritesNothing(t *testing.T) {
	env := newTestEnv()
	author := env.addUser("alice", false)

	in := postInput(env, "")
	_, err := env.services.Post.Create(context.Background(), in, author)

	ve, ok := common.AsValidationError(err)
	if !ok {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if len(ve.Fields) == 0 || ve.Fields[0].Field != "title" {
		t.Errorf("Expected title field error, got %+v", ve.Fields)
	}
	if len(env.posts.Posts) != 0 {
		t.Error("Validation failure must not persist anything")
	}
}

func TestCreatePostUnknownCategory(t *testing.T) {
	env := newTestEnv()
	author := env.addUser("alice", false)

	in := postInput(env, "Orphan Post")
	in.CategoryID = "4dca43f0-7d1a-4f70-b531-111111111111"
	_, err := env.services.Post.Create(context.Background(), in, author)

	ve, ok := common.AsValidationError(err)
	if !ok {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if ve.Fields[0].Field != "category_id" {
		t.Errorf("Expected category_id field error, got %+v", ve.Fields)
	}
}

func TestCreatePostSlugCollisionSuffixes(t *testing.T) {
	env := newTestEnv()
	author := env.addUser("alice", false)
	env.addPost("duplicate-title", author, models.StatePublished)

	result, err := env.services.Post.Create(context.Background(), postInput(env, "Duplicate Title"), author)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if result.Post.Slug != "duplicate-title-2" {
		t.Errorf("Expected suffixed slug duplicate-title-2, got %s", result.Post.Slug)
	}
}

func TestGetPostVisibility(t *testing.T) {
	env := newTestEnv()
	author := env.addUser("alice", false)
	stranger := env.addUser("mallory", false)
	admin := env.addUser("admin", true)
	env.addPost("pending-post", author, models.StatePending)

	tests := []struct {
		name    string
		viewer  *models.User
		wantErr error
	}{
		{"anonymous", nil, common.ErrNotFound},
		{"stranger", stranger, common.ErrNotFound},
		{"owner", author, nil},
		{"admin", admin, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail, err := env.services.Post.Get(context.Background(), "pending-post", tt.viewer)
			if !errors.Is(err, tt.wantErr) && err != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil {
				if !detail.AwaitingApproval {
					t.Error("Pending post shown to allowed viewer should flag awaiting approval")
				}
				if detail.ViewsCount != 0 {
					t.Error("Non-published reads must not count views")
				}
			}
		})
	}
}

func TestGetPublishedPostCountsViewAndRatings(t *testing.T) {
	env := newTestEnv()
	author := env.addUser("alice", false)
	reader := env.addUser("carol", false)
	post := env.addPost("live-post", author, models.StatePublished)

	env.ratings.Upsert(context.Background(), &models.Rating{PostID: post.ID, UserID: reader.ID, Rating: 4})

	detail, err := env.services.Post.Get(context.Background(), "live-post", reader)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if detail.ViewsCount != 1 {
		t.Errorf("Expected views_count 1, got %d", detail.ViewsCount)
	}
	if detail.AvgRating == nil || *detail.AvgRating != 4 {
		t.Errorf("Expected avg rating 4, got %v", detail.AvgRating)
	}
	if detail.UserRating == nil || *detail.UserRating != 4 {
		t.Errorf("Expected user rating 4, got %v", detail.UserRating)
	}
	if detail.CanEdit {
		t.Error("Reader must not be able to edit someone else's post")
	}
	if detail.BodyHTML == "" {
		t.Error("Expected rendered body HTML")
	}
}

func TestUpdatePostOwnerOnly(t *testing.T) {
	env := newTestEnv()
	author := env.addUser("alice", false)
	admin := env.addUser("admin", true)
	env.addPost("my-post", author, models.StatePublished)

	// Even an admin gets not-found on someone else's post
	_, err := env.services.Post.Update(context.Background(), "my-post", postInput(env, "Hijack"), admin)
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected not found for non-owner edit, got %v", err)
	}
}

func TestUpdatePublishedPostBumpsVersion(t *testing.T) {
	env := newTestEnv()
	author := env.addUser("alice", false)
	post := env.addPost("my-post", author, models.StatePublished)
	firstPublished := *post.PublishedAt

	result, err := env.services.Post.Update(context.Background(), "my-post", postInput(env, "Revised Title"), author)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if result.Outcome != workflow.OutcomeVersioned {
		t.Errorf("Expected outcome versioned, got %s", result.Outcome)
	}
	if result.Post.Version != 2 {
		t.Errorf("Expected version 2, got %d", result.Post.Version)
	}
	if result.Post.Status != models.StatePublished {
		t.Error("Edit must not unpublish")
	}
	if !result.Post.PublishedAt.Equal(firstPublished) {
		t.Error("Edit must preserve the original published_at")
	}
	if result.Post.Slug != "my-post" {
		t.Error("Slug must not change on edit")
	}
	if result.Post.Title != "Revised Title" {
		t.Errorf("Expected updated title, got %s", result.Post.Title)
	}
}

func TestUpdatePendingPostKeepsVersion(t *testing.T) {
	env := newTestEnv()
	author := env.addUser("alice", false)
	env.addPost("pending-post", author, models.StatePending)

	result, err := env.services.Post.Update(context.Background(), "pending-post", postInput(env, "Still Pending"), author)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if result.Outcome != workflow.OutcomeEdited {
		t.Errorf("Expected outcome edited, got %s", result.Outcome)
	}
	if result.Post.Version != 1 {
		t.Errorf("Pending edit must not bump version, got %d", result.Post.Version)
	}
	if result.Post.Status != models.StatePending {
		t.Errorf("Pending edit must not change state, got %s", result.Post.Status)
	}
}

func TestListReturnsOnlyPublished(t *testing.T) {
	env := newTestEnv()
	author := env.addUser("alice", false)
	env.addPost("published-one", author, models.StatePublished)
	env.addPost("pending-one", author, models.StatePending)
	env.addPost("draft-one", author, models.StateDraft)

	posts, meta, err := env.services.Post.List(context.Background(), repository.PostFilter{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(posts) != 1 || posts[0].Slug != "published-one" {
		t.Errorf("Expected only the published post, got %d posts", len(posts))
	}
	if meta.Total != 1 {
		t.Errorf("Expected total 1, got %d", meta.Total)
	}
}

func TestGetPublishedPostCarriesNeighbors(t *testing.T) {
	env := newTestEnv()
	author := env.addUser("alice", false)

	base := time.Now().Add(-time.Hour)
	first := env.addPost("first", author, models.StatePublished)
	first.CreatedAt = base
	middle := env.addPost("middle", author, models.StatePublished)
	middle.CreatedAt = base.Add(time.Minute)
	hidden := env.addPost("hidden", author, models.StatePending)
	hidden.CreatedAt = base.Add(2 * time.Minute)
	last := env.addPost("last", author, models.StatePublished)
	last.CreatedAt = base.Add(3 * time.Minute)

	detail, err := env.services.Post.Get(context.Background(), "middle", nil)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if detail.PreviousPost == nil || detail.PreviousPost.Slug != "first" {
		t.Errorf("Expected previous post first, got %+v", detail.PreviousPost)
	}
	if detail.NextPost == nil || detail.NextPost.Slug != "last" {
		t.Errorf("Expected next post last, skipping the pending one, got %+v", detail.NextPost)
	}

	// Edge posts have no neighbor on the open side
	detail, err = env.services.Post.Get(context.Background(), "first", nil)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if detail.PreviousPost != nil {
		t.Error("Oldest post must have no previous post")
	}
}

func TestListSearchMatchesBodySubstring(t *testing.T) {
	env := newTestEnv()
	author := env.addUser("alice", false)

	published := env.addPost("gyro-post", author, models.StatePublished)
	published.Body = "Calibrating the gyroscope took a full afternoon."
	pending := env.addPost("pending-gyro", author, models.StatePending)
	pending.Body = "Another gyroscope write-up, not yet approved."
	noise := env.addPost("unrelated", author, models.StatePublished)
	noise.Body = "Nothing about sensors here."

	posts, _, err := env.services.Post.List(context.Background(), repository.PostFilter{Search: "GYROSCOPE", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(posts) != 1 || posts[0].Slug != "gyro-post" {
		t.Fatalf("Expected only the published match, got %d posts", len(posts))
	}
}

func TestListFiltersByCategorySlug(t *testing.T) {
	env := newTestEnv()
	author := env.addUser("alice", false)

	other := &models.Category{ID: uuid.NewString(), Slug: "electronics", Name: "Electronics"}
	env.categories.Add(other)

	env.addPost("in-robotics", author, models.StatePublished)
	moved := env.addPost("in-electronics", author, models.StatePublished)
	moved.CategoryID = other.ID
	pendingMoved := env.addPost("pending-electronics", author, models.StatePending)
	pendingMoved.CategoryID = other.ID

	posts, meta, err := env.services.Post.List(context.Background(), repository.PostFilter{CategorySlug: "electronics", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(posts) != 1 || posts[0].Slug != "in-electronics" {
		t.Fatalf("Expected only the published electronics post, got %d posts", len(posts))
	}
	if meta.Total != 1 {
		t.Errorf("Expected total 1, got %d", meta.Total)
	}

	// Unknown slug matches nothing rather than everything
	posts, _, err = env.services.Post.List(context.Background(), repository.PostFilter{CategorySlug: "no-such", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("Expected no posts for unknown category, got %d", len(posts))
	}
}

func TestPopularTags(t *testing.T) {
	env := newTestEnv()
	author := env.addUser("alice", false)
	p1 := env.addPost("one", author, models.StatePublished)
	p1.Tags = []string{"go", "robotics"}
	p2 := env.addPost("two", author, models.StatePublished)
	p2.Tags = []string{"go"}
	hidden := env.addPost("three", author, models.StatePending)
	hidden.Tags = []string{"secret"}

	tags, err := env.services.Post.PopularTags(context.Background(), 10)
	if err != nil {
		t.Fatalf("PopularTags failed: %v", err)
	}

	if len(tags) != 2 || tags[0].Tag != "go" || tags[0].Count != 2 {
		t.Errorf("Expected go=2 first, got %+v", tags)
	}
	for _, tag := range tags {
		if tag.Tag == "secret" {
			t.Error("Tags of non-published posts must not appear")
		}
	}
}
