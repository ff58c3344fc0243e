package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/medplat-be/internal/models"
	"github.com/hongminglow/medplat-be/internal/storage"
)

// UserFinder is the slice of the credential store the guard needs.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// Guard resolves bearer tokens to users and enforces role checks.
type Guard struct {
	tokens *TokenManager
	users  UserFinder
}

// NewGuard wires a guard over a token manager and a credential store.
func NewGuard(tokens *TokenManager, users UserFinder) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// Authenticate validates token and loads its subject. Invalid tokens and unknown
// subjects both yield ErrUnauthorized; storage failures are returned as-is.
func (g *Guard) Authenticate(ctx context.Context, token string) (models.User, error) {
	username, err := g.tokens.Validate(token)
	if err != nil {
		return models.User{}, err
	}
	user, err := g.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, fmt.Errorf("load token subject: %w", err)
	}
	return user, nil
}

// RequireRole allows the call only when role is privileged and user holds it.
// Non-privileged requirements are always denied.
func RequireRole(user models.User, role models.Role) error {
	if !role.Privileged() || user.Role != role {
		return ErrForbidden
	}
	return nil
}
