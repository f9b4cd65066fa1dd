package models

import (
	"time"
)

// User represents an account in the system
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Bio          string    `json:"bio,omitempty" db:"bio"`
	Website      string    `json:"website,omitempty" db:"website"`
	GithubURL    string    `json:"github_url,omitempty" db:"github_url"`
	IsStaff      bool      `json:"is_staff" db:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser" db:"is_superuser"`
	Capabilities []string  `json:"capabilities,omitempty" db:"-"` // Loaded from user_capabilities
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// HasCapability reports whether the user holds an explicit capability grant.
// Absent grants are false, never an error.
func (u *User) HasCapability(name string) bool {
	if u == nil {
		return false
	}
	for _, c := range u.Capabilities {
		if c == name {
			return true
		}
	}
	return false
}

// PublicUser is the subset of User safe to embed in content responses
type PublicUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ToPublic strips credentials and flags for embedding
func (u *User) ToPublic() *PublicUser {
	return &PublicUser{ID: u.ID, Name: u.Name}
}
