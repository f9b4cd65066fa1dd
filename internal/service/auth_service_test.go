package service

import (
	"context"
	"errors"
	"testing"

	"github.com/blog-showcase-api/internal/common"
	"github.com/blog-showcase-api/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterIssuesToken(t *testing.T) {
	env := newTestEnv()

	user, tok, err := env.services.Auth.Register(context.Background(), &validation.RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if user.PasswordHash == "s3cret-pass" {
		t.Error("Password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Errorf("Stored hash does not match password: %v", err)
	}
	if tok == "" {
		t.Fatal("Expected a signed token")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv()
	env.addUser("alice", false)

	_, _, err := env.services.Auth.Register(context.Background(), &validation.RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice Again",
		Password: "s3cret-pass",
	})
	if !errors.Is(err, common.ErrConflict) {
		t.Errorf("Expected conflict, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv()

	_, _, err := env.services.Auth.Register(context.Background(), &validation.RegisterInput{
		Email:    "not-an-email",
		Name:     "",
		Password: "short",
	})
	ve, ok := common.AsValidationError(err)
	if !ok {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if len(ve.Fields) != 3 {
		t.Errorf("Expected 3 field errors, got %d", len(ve.Fields))
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv()

	_, _, err := env.services.Auth.Register(context.Background(), &validation.RegisterInput{
		Email:    "bob@example.com",
		Name:     "Bob",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, tok, err := env.services.Auth.Login(context.Background(), &validation.LoginInput{
		Email:    "bob@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Email != "bob@example.com" || tok == "" {
		t.Error("Login must return the user and a token")
	}

	// Wrong password and unknown email are indistinguishable
	if _, _, err := env.services.Auth.Login(context.Background(), &validation.LoginInput{Email: "bob@example.com", Password: "wrong"}); !errors.Is(err, common.ErrInvalidCredentials) {
		t.Errorf("Expected invalid credentials, got %v", err)
	}
	if _, _, err := env.services.Auth.Login(context.Background(), &validation.LoginInput{Email: "nobody@example.com", Password: "whatever"}); !errors.Is(err, common.ErrInvalidCredentials) {
		t.Errorf("Expected invalid credentials, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("alice", false)

	updated, err := env.services.Auth.UpdateProfile(context.Background(), user, &validation.ProfileInput{
		Name:      "Alice B",
		Bio:       "Robot builder",
		Website:   "https://alice.example.com",
		GithubURL: "https://github.com/aliceb",
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	if updated.Name != "Alice B" || updated.Bio != "Robot builder" {
		t.Errorf("Profile fields not applied: %+v", updated)
	}

	stored := env.users.Users[user.ID]
	if stored.Name != "Alice B" || stored.Website != "https://alice.example.com" {
		t.Error("Profile edit was not persisted")
	}
	if stored.Email != "alice@example.com" {
		t.Error("Email must not change on profile edit")
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("alice", false)

	_, err := env.services.Auth.UpdateProfile(context.Background(), user, &validation.ProfileInput{
		Name:    "Alice",
		Website: "not-a-url",
	})
	ve, ok := common.AsValidationError(err)
	if !ok {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if ve.Fields[0].Field != "website" {
		t.Errorf("Expected website field error, got %+v", ve.Fields)
	}
}

func TestGetUserNotFound(t *testing.T) {
	env := newTestEnv()
	if _, err := env.services.Auth.GetUser(context.Background(), "missing-id"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}
