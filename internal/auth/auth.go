package auth

import (
	"context"
	"errors"
	"strings"
)

// Role is the caller's role in the platform.
type Role string

const (
	RoleEntrepreneur Role = "entrepreneur"
	RoleMentor       Role = "mentor"
	RoleAdmin        Role = "admin"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	errMissingSecret = errors.New("jwt secret not configured")
)

// ParseRole accepts a role name case-insensitively.
func ParseRole(raw string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case RoleEntrepreneur, RoleMentor, RoleAdmin:
		return r, true
	default:
		return "", false
	}
}

// User is an authenticated caller.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  Role   `json:"role"`
}

// Reviewer reports whether the user may see and annotate every idea.
func (u User) Reviewer() bool {
	return u.Role == RoleMentor || u.Role == RoleAdmin
}

// Service resolves a bearer token into a user.
type Service interface {
	Authenticate(ctx context.Context, token string) (User, error)
}
