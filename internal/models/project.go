package models

import (
	"time"
)

// Project types
var ValidProjectTypes = map[string]bool{
	"web":      true,
	"robotics": true,
	"iot":      true,
	"ai":       true,
	"mobile":   true,
	"desktop":  true,
	"other":    true,
}

// Project progress stages (distinct from the publication state)
var ValidProjectProgress = map[string]bool{
	"planning":    true,
	"development": true,
	"testing":     true,
	"completed":   true,
	"maintenance": true,
}

// Project represents a showcase project subject to the approval workflow.
// Projects share the Post state enum but never enter StateDraft.
type Project struct {
	ID               string     `json:"id" db:"id"`
	Slug             string     `json:"slug" db:"slug"`
	Title            string     `json:"title" db:"title"`
	Description      string     `json:"description" db:"description"`
	ProjectType      string     `json:"project_type" db:"project_type"`
	Progress         string     `json:"progress" db:"progress"`
	Status           State      `json:"status" db:"status"`
	SubmittedBy      string     `json:"submitted_by" db:"submitted_by"`
	GithubURL        string     `json:"github_url,omitempty" db:"github_url"`
	DemoURL          string     `json:"demo_url,omitempty" db:"demo_url"`
	DocumentationURL string     `json:"documentation_url,omitempty" db:"documentation_url"`
	Technologies     []string   `json:"technologies" db:"-"` // Stored as JSON string in DB
	IsFeatured       bool       `json:"is_featured" db:"is_featured"`
	StartDate        time.Time  `json:"start_date" db:"start_date"`
	EndDate          *time.Time `json:"end_date,omitempty" db:"end_date"`
	PublishedAt      *time.Time `json:"published_at,omitempty" db:"published_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// Approved reports the project-side view of the publication state
func (p *Project) Approved() bool {
	return p.Status == StatePublished
}

// ProjectResponse keeps the historical is_approved field on the wire while
// the storage uses the unified state enum.
type ProjectResponse struct {
	*Project
	IsApproved bool        `json:"is_approved"`
	Submitter  *PublicUser `json:"submitter,omitempty"`
}

// ToResponse builds the API shape for a project
func (p *Project) ToResponse() *ProjectResponse {
	return &ProjectResponse{Project: p, IsApproved: p.Approved()}
}
