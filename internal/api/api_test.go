package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blog-showcase-api/internal/api"
	"github.com/blog-showcase-api/internal/config"
	"github.com/blog-showcase-api/internal/mocks"
	"github.com/blog-showcase-api/internal/models"
	"github.com/blog-showcase-api/internal/service"
	"github.com/blog-showcase-api/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type testServer struct {
	router *gin.Engine
	tokens *token.Manager

	users      *mocks.MockUserRepository
	posts      *mocks.MockPostRepository
	projects   *mocks.MockProjectRepository
	categories *mocks.MockCategoryRepository

	category *models.Category
}

func setupTestServer() *testServer {
	gin.SetMode(gin.TestMode)

	repos, users, posts, projects, _, _, categories := mocks.NewRepositories()

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "8080"},
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			BcryptCost: 4,
		},
	}

	log := zerolog.Nop()
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	services := service.NewServices(repos, cfg, tokens, log)

	srv := &testServer{
		router:     api.NewRouter(services, cfg, tokens, log),
		tokens:     tokens,
		users:      users,
		posts:      posts,
		projects:   projects,
		categories: categories,
	}

	srv.category = &models.Category{ID: uuid.NewString(), Slug: "robotics", Name: "Robotics"}
	categories.Add(srv.category)

	return srv
}

func (s *testServer) addUser(name string, staff bool) (*models.User, string) {
	user := &models.User{
		ID:      uuid.NewString(),
		Email:   name + "@example.com",
		Name:    name,
		IsStaff: staff,
	}
	s.users.Users[user.ID] = user
	s.users.EmailToUser[user.Email] = user

	tok, err := s.tokens.Issue(user.ID, user.Name)
	if err != nil {
		panic(err)
	}
	return user, tok
}

func (s *testServer) do(method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return response
}

func TestHealthEndpoint(t *testing.T) {
	srv := setupTestServer()

	w := srv.do("GET", "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	response := decode(t, w)
	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "blog-showcase-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestRegisterAndLogin(t *testing.T) {
	srv := setupTestServer()

	w := srv.do("POST", "/v1/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"name":     "Alice",
		"password": "s3cret-pass",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if decode(t, w)["token"] == "" {
		t.Error("Expected a token in the register response")
	}

	w = srv.do("POST", "/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	tok, _ := decode(t, w)["token"].(string)
	if tok == "" {
		t.Fatal("Expected a token in the login response")
	}

	w = srv.do("GET", "/v1/auth/me", tok, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 on /me, got %d", w.Code)
	}

	w = srv.do("POST", "/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for bad password, got %d", w.Code)
	}
}

func TestCreatePostRequiresAuth(t *testing.T) {
	srv := setupTestServer()

	w := srv.do("POST", "/v1/posts", "", map[string]string{"title": "No Auth"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestCreatePostValidationErrorShape(t *testing.T) {
	srv := setupTestServer()
	_, tok := srv.addUser("alice", false)

	w := srv.do("POST", "/v1/posts", tok, map[string]interface{}{
		"title": "Missing Everything Else",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	response := decode(t, w)
	fields, ok := response["fields"].([]interface{})
	if !ok || len(fields) == 0 {
		t.Errorf("Expected field errors in response, got %v", response)
	}
}

func TestSubmissionAndModerationFlow(t *testing.T) {
	srv := setupTestServer()
	_, authorTok := srv.addUser("alice", false)
	_, adminTok := srv.addUser("admin", true)

	// Submit as a regular user: enters the queue, not the site
	w := srv.do("POST", "/v1/posts", authorTok, map[string]interface{}{
		"title":       "Line Follower Build Log",
		"excerpt":     "Building a line follower robot",
		"body":        "The full build log body.",
		"category_id": srv.category.ID,
		"tags":        []string{"robotics"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	response := decode(t, w)
	if response["message"] != "submitted and awaiting approval" {
		t.Errorf("Expected pending submission message, got %v", response["message"])
	}
	post := response["post"].(map[string]interface{})
	slug := post["slug"].(string)

	// Invisible to anonymous readers while pending
	if w := srv.do("GET", "/v1/posts/"+slug, "", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for pending post, got %d", w.Code)
	}

	// Visible to the author, flagged as awaiting approval
	w = srv.do("GET", "/v1/posts/"+slug, authorTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for owner, got %d", w.Code)
	}
	if decode(t, w)["awaiting_approval"] != true {
		t.Error("Owner view of pending post should flag awaiting_approval")
	}

	// Sits in the moderation queue
	w = srv.do("GET", "/v1/moderation/queue", adminTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for moderation queue, got %d", w.Code)
	}
	if decode(t, w)["total_pending"] != float64(1) {
		t.Errorf("Expected 1 pending item, got %v", decode(t, w)["total_pending"])
	}

	// Approve it
	w = srv.do("POST", "/v1/moderation/posts/"+slug+"/approve", adminTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on approve, got %d: %s", w.Code, w.Body.String())
	}
	if decode(t, w)["message"] != "approved and published" {
		t.Errorf("Expected approval message, got %v", decode(t, w)["message"])
	}

	// Now public
	if w := srv.do("GET", "/v1/posts/"+slug, "", nil); w.Code != http.StatusOK {
		t.Errorf("Expected 200 for published post, got %d", w.Code)
	}

	// Second approval is a benign no-op
	w = srv.do("POST", "/v1/moderation/posts/"+slug+"/approve", adminTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on re-approve, got %d", w.Code)
	}
	if decode(t, w)["message"] != "already published, nothing changed" {
		t.Errorf("Expected no-op message, got %v", decode(t, w)["message"])
	}
}

func TestModerationSurfaceHiddenFromNonStaff(t *testing.T) {
	srv := setupTestServer()
	_, tok := srv.addUser("alice", false)

	// Not forbidden: the surface itself reads as not-found
	if w := srv.do("GET", "/v1/moderation/queue", tok, nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for non-staff, got %d", w.Code)
	}
	if w := srv.do("GET", "/v1/moderation/queue", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for anonymous, got %d", w.Code)
	}
}

func TestCommentAndRatingEndpoints(t *testing.T) {
	srv := setupTestServer()
	author, _ := srv.addUser("alice", false)
	_, readerTok := srv.addUser("carol", false)

	at := time.Now()
	post := &models.Post{
		ID:          uuid.NewString(),
		Slug:        "live-post",
		Title:       "Live Post",
		AuthorID:    author.ID,
		CategoryID:  srv.category.ID,
		Status:      models.StatePublished,
		Version:     1,
		PublishedAt: &at,
		CreatedAt:   at,
	}
	srv.posts.Posts[post.ID] = post
	srv.posts.SlugToPost[post.Slug] = post

	w := srv.do("POST", "/v1/posts/live-post/comments", readerTok, map[string]string{"body": "Nice build"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = srv.do("GET", "/v1/posts/live-post/comments", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	comments := decode(t, w)["comments"].([]interface{})
	if len(comments) != 1 {
		t.Errorf("Expected 1 comment, got %d", len(comments))
	}

	w = srv.do("POST", "/v1/posts/live-post/ratings", readerTok, map[string]int{"rating": 5})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	rating := decode(t, w)["rating"].(map[string]interface{})
	if rating["count"] != float64(1) {
		t.Errorf("Expected rating count 1, got %v", rating["count"])
	}
}

func TestProjectSubmissionFlow(t *testing.T) {
	srv := setupTestServer()
	_, tok := srv.addUser("alice", false)

	w := srv.do("POST", "/v1/projects", tok, map[string]interface{}{
		"title":        "Hexapod Walker",
		"description":  "Six-legged walking platform",
		"project_type": "robotics",
		"progress":     "development",
		"technologies": []string{"go", "ros"},
		"start_date":   "2026-01-15",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	response := decode(t, w)
	project := response["project"].(map[string]interface{})
	if project["is_approved"] != false {
		t.Error("New project must not be approved")
	}

	// Pending projects are absent from the public list
	w = srv.do("GET", "/v1/projects", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	projects := decode(t, w)["projects"]
	if projects != nil {
		if list, ok := projects.([]interface{}); ok && len(list) != 0 {
			t.Errorf("Expected empty project list, got %d", len(list))
		}
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	srv := setupTestServer()

	if w := srv.do("GET", "/v1/search", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without q, got %d", w.Code)
	}
}

func TestSearchFindsPublishedPostByBody(t *testing.T) {
	srv := setupTestServer()
	author, _ := srv.addUser("alice", false)

	at := time.Now()
	for _, p := range []*models.Post{
		{
			ID: uuid.NewString(), Slug: "servo-post", Title: "Servo Control",
			Body: "Tuning the servo deadband made all the difference.", AuthorID: author.ID,
			CategoryID: srv.category.ID, Status: models.StatePublished, Version: 1,
			PublishedAt: &at, CreatedAt: at,
		},
		{
			ID: uuid.NewString(), Slug: "pending-servo", Title: "More Servos",
			Body: "Also about servo deadband, but awaiting approval.", AuthorID: author.ID,
			CategoryID: srv.category.ID, Status: models.StatePending, Version: 1, CreatedAt: at,
		},
	} {
		srv.posts.Posts[p.ID] = p
		srv.posts.SlugToPost[p.Slug] = p
	}

	w := srv.do("GET", "/v1/search?q=deadband", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	posts := decode(t, w)["posts"].([]interface{})
	if len(posts) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(posts))
	}
	if posts[0].(map[string]interface{})["slug"] != "servo-post" {
		t.Error("Search must only surface the published post")
	}
}

func TestUpdateProfileEndpoint(t *testing.T) {
	srv := setupTestServer()
	user, tok := srv.addUser("alice", false)

	w := srv.do("PUT", "/v1/auth/me", tok, map[string]string{
		"name": "Alice B",
		"bio":  "Robot builder",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if srv.users.Users[user.ID].Name != "Alice B" {
		t.Error("Profile edit was not persisted")
	}

	if w := srv.do("PUT", "/v1/auth/me", "", map[string]string{"name": "X"}); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without auth, got %d", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv := setupTestServer()

	w := srv.do("GET", "/v1/stats", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	response := decode(t, w)
	if response["categories"] != float64(1) {
		t.Errorf("Expected 1 category, got %v", response["categories"])
	}
}
