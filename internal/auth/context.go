package auth

import (
	"context"

	"github.com/google/uuid"
)

// Role names carried in token claims
const (
	RoleAdmin      = "admin"
	RoleFinance    = "finance"
	RoleOperations = "operations"
	RoleViewer     = "viewer"
	RoleAPIService = "api_service"
)

// UserContext holds the authenticated caller's identity for the request
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	Roles       []string
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext attaches the user to the request context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts the user from the request context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// HasRole reports whether the user carries a specific role
func (u *UserContext) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the user carries any of the given roles
func (u *UserContext) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user is an administrator
func (u *UserContext) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}
