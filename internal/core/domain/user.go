package domain

import (
	"net/mail"
	"strings"
)

// Role controls what a dashboard member may do.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// User is a dashboard member listed on the team page.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Validate checks name, email syntax and role.
func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return NewValidationError("name", "must not be empty")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return NewValidationError("email", "not a valid address")
	}
	if u.Role != RoleAdmin && u.Role != RoleViewer {
		return NewValidationError("role", "must be admin or viewer")
	}
	return nil
}
