package authz

import (
	"context"
	"errors"
	"strings"
)

var ErrUnauthenticated = errors.New("unauthenticated")

// AuthUser is the caller identity supplied by the upstream gateway.
type AuthUser struct {
	ID      string
	IsAdmin bool
}

type userContextKey struct{}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the AuthUser stored in ctx.
// It returns nil if ctx is nil, if no user is stored, or if the stored value has a different type.
func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}

	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

func IsAdmin(user *AuthUser) bool {
	return user != nil && user.IsAdmin
}

// RequireUser returns ErrUnauthenticated when ctx carries no caller.
func RequireUser(ctx context.Context) error {
	user := UserFromContext(ctx)
	if user == nil || strings.TrimSpace(user.ID) == "" {
		return ErrUnauthenticated
	}
	return nil
}
