package auth

import (
	"context"
	"errors"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/inventory-service/internal/domain"
	apperrors "github.com/spec-kit/inventory-service/pkg/util/errorutil"
)

// CredentialsMessage is the only message returned for authentication failures.
const CredentialsMessage = "could not validate credentials"

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (jwt.MapClaims, bool)
}

// UserLookup finds users by username.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Resolver maps a bearer token to an active user.
type Resolver struct {
	tokens TokenVerifier
	users  UserLookup
}

// NewResolver constructs a resolver.
func NewResolver(tokens TokenVerifier, users UserLookup) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve returns the active user named by the token subject. Invalid tokens,
// unknown subjects and inactive users all fail with the same unauthorized error.
// The user is re-read on every call.
func (r *Resolver) Resolve(ctx context.Context, token string) (*domain.User, error) {
	claims, ok := r.tokens.Verify(token)
	if !ok {
		return nil, apperrors.NewUnauthorized(CredentialsMessage)
	}
	username, err := claims.GetSubject()
	if err != nil || username == "" {
		return nil, apperrors.NewUnauthorized(CredentialsMessage)
	}

	user, err := r.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized(CredentialsMessage)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorized(CredentialsMessage)
	}
	return user, nil
}
