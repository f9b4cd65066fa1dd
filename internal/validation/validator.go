// Package validation holds the typed input structs per operation and the pure
// functions validating them. Validators return field-level errors and never
// mutate state.
package validation

import (
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/blog-showcase-api/internal/common"
	"github.com/blog-showcase-api/internal/models"
	"github.com/google/uuid"
)

const (
	maxTitleLength   = 200
	maxExcerptLength = 300
	minPasswordChars = 8
	maxTags          = 10
)

// PostInput is the payload for creating or editing a post
type PostInput struct {
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt"`
	Body       string   `json:"body"`
	CategoryID string   `json:"category_id"`
	Tags       []string `json:"tags"`
	Difficulty string   `json:"difficulty"`
}

// ValidatePost validates a post input
func ValidatePost(in *PostInput) []common.FieldError {
	var errs []common.FieldError

	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, common.FieldError{Field: "title", Message: "title is required"})
	} else if len(in.Title) > maxTitleLength {
		errs = append(errs, common.FieldError{Field: "title", Message: "title exceeds 200 characters"})
	}

	if strings.TrimSpace(in.Excerpt) == "" {
		errs = append(errs, common.FieldError{Field: "excerpt", Message: "excerpt is required"})
	} else if len(in.Excerpt) > maxExcerptLength {
		errs = append(errs, common.FieldError{Field: "excerpt", Message: "excerpt exceeds 300 characters"})
	}

	if strings.TrimSpace(in.Body) == "" {
		errs = append(errs, common.FieldError{Field: "body", Message: "body is required"})
	}

	if in.CategoryID == "" {
		errs = append(errs, common.FieldError{Field: "category_id", Message: "category_id is required"})
	} else if !isValidUUID(in.CategoryID) {
		errs = append(errs, common.FieldError{Field: "category_id", Message: "invalid UUID format", Value: in.CategoryID})
	}

	if in.Difficulty == "" {
		in.Difficulty = models.DifficultyBeginner
	} else if !models.ValidDifficulties[in.Difficulty] {
		errs = append(errs, common.FieldError{Field: "difficulty", Message: "difficulty must be one of: beginner, intermediate, advanced, expert", Value: in.Difficulty})
	}

	if len(in.Tags) > maxTags {
		errs = append(errs, common.FieldError{Field: "tags", Message: "at most 10 tags allowed"})
	}
	for _, tag := range in.Tags {
		if strings.TrimSpace(tag) == "" {
			errs = append(errs, common.FieldError{Field: "tags", Message: "tags must not be blank"})
			break
		}
	}

	return errs
}

// ProjectInput is the payload for creating a project
type ProjectInput struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	ProjectType      string   `json:"project_type"`
	Progress         string   `json:"progress"`
	GithubURL        string   `json:"github_url"`
	DemoURL          string   `json:"demo_url"`
	DocumentationURL string   `json:"documentation_url"`
	Technologies     []string `json:"technologies"`
	StartDate        string   `json:"start_date"` // YYYY-MM-DD
	EndDate          string   `json:"end_date,omitempty"`
}

// ValidateProject validates a project input
func ValidateProject(in *ProjectInput) []common.FieldError {
	var errs []common.FieldError

	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, common.FieldError{Field: "title", Message: "title is required"})
	} else if len(in.Title) > maxTitleLength {
		errs = append(errs, common.FieldError{Field: "title", Message: "title exceeds 200 characters"})
	}

	if strings.TrimSpace(in.Description) == "" {
		errs = append(errs, common.FieldError{Field: "description", Message: "description is required"})
	}

	if in.ProjectType == "" {
		in.ProjectType = "web"
	} else if !models.ValidProjectTypes[in.ProjectType] {
		errs = append(errs, common.FieldError{Field: "project_type", Message: "unknown project type", Value: in.ProjectType})
	}

	if in.Progress == "" {
		in.Progress = "planning"
	} else if !models.ValidProjectProgress[in.Progress] {
		errs = append(errs, common.FieldError{Field: "progress", Message: "unknown progress stage", Value: in.Progress})
	}

	if len(in.Technologies) == 0 {
		errs = append(errs, common.FieldError{Field: "technologies", Message: "at least one technology is required"})
	}

	if in.StartDate == "" {
		errs = append(errs, common.FieldError{Field: "start_date", Message: "start_date is required"})
	} else if _, err := time.Parse("2006-01-02", in.StartDate); err != nil {
		errs = append(errs, common.FieldError{Field: "start_date", Message: "start_date must be YYYY-MM-DD", Value: in.StartDate})
	}
	if in.EndDate != "" {
		if _, err := time.Parse("2006-01-02", in.EndDate); err != nil {
			errs = append(errs, common.FieldError{Field: "end_date", Message: "end_date must be YYYY-MM-DD", Value: in.EndDate})
		}
	}

	for _, field := range []struct{ name, value string }{
		{"github_url", in.GithubURL},
		{"demo_url", in.DemoURL},
		{"documentation_url", in.DocumentationURL},
	} {
		if field.value != "" && !isValidURL(field.value) {
			errs = append(errs, common.FieldError{Field: field.name, Message: "invalid URL", Value: field.value})
		}
	}

	return errs
}

// CommentInput is the payload for adding a comment
type CommentInput struct {
	Body     string  `json:"body"`
	ParentID *string `json:"parent_id,omitempty"`
}

// ValidateComment validates a comment input
func ValidateComment(in *CommentInput) []common.FieldError {
	var errs []common.FieldError

	if strings.TrimSpace(in.Body) == "" {
		errs = append(errs, common.FieldError{Field: "body", Message: "body is required"})
	} else if len(in.Body) > models.MaxCommentLength {
		errs = append(errs, common.FieldError{Field: "body", Message: "comment exceeds 4000 characters"})
	}

	if in.ParentID != nil && !isValidUUID(*in.ParentID) {
		errs = append(errs, common.FieldError{Field: "parent_id", Message: "invalid UUID format", Value: *in.ParentID})
	}

	return errs
}

// RatingInput is the payload for rating a post
type RatingInput struct {
	Rating int `json:"rating"`
}

// ValidateRating validates a rating input
func ValidateRating(in *RatingInput) []common.FieldError {
	if in.Rating < 1 || in.Rating > 5 {
		return []common.FieldError{{Field: "rating", Message: "rating must be between 1 and 5", Value: in.Rating}}
	}
	return nil
}

// RegisterInput is the payload for account registration
type RegisterInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Bio      string `json:"bio,omitempty"`
	Website  string `json:"website,omitempty"`
}

// ValidateRegister validates a registration input
func ValidateRegister(in *RegisterInput) []common.FieldError {
	var errs []common.FieldError

	if in.Email == "" {
		errs = append(errs, common.FieldError{Field: "email", Message: "email is required"})
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		errs = append(errs, common.FieldError{Field: "email", Message: "invalid email format", Value: in.Email})
	}

	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, common.FieldError{Field: "name", Message: "name is required"})
	}

	if len(in.Password) < minPasswordChars {
		errs = append(errs, common.FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}

	if in.Website != "" && !isValidURL(in.Website) {
		errs = append(errs, common.FieldError{Field: "website", Message: "invalid URL", Value: in.Website})
	}

	return errs
}

// ProfileInput is the payload for editing the caller's own profile
type ProfileInput struct {
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	Website   string `json:"website"`
	GithubURL string `json:"github_url"`
}

// ValidateProfile validates a profile edit input
func ValidateProfile(in *ProfileInput) []common.FieldError {
	var errs []common.FieldError

	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, common.FieldError{Field: "name", Message: "name is required"})
	}

	for _, field := range []struct{ name, value string }{
		{"website", in.Website},
		{"github_url", in.GithubURL},
	} {
		if field.value != "" && !isValidURL(field.value) {
			errs = append(errs, common.FieldError{Field: field.name, Message: "invalid URL", Value: field.value})
		}
	}

	return errs
}

// LoginInput is the payload for login
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateLogin validates a login input
func ValidateLogin(in *LoginInput) []common.FieldError {
	var errs []common.FieldError
	if in.Email == "" {
		errs = append(errs, common.FieldError{Field: "email", Message: "email is required"})
	}
	if in.Password == "" {
		errs = append(errs, common.FieldError{Field: "password", Message: "password is required"})
	}
	return errs
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func isValidURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
