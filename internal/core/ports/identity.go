package ports

import (
	"context"

	"github.com/performile/courier-platform/internal/core/domain"
)

// IdentityService establishes caller identity for endpoints that are either
// token-gated or API-key-gated.
type IdentityService interface {
	// Resolve maps a bearer token or an API key to an identity. A verified
	// token always takes precedence over the API key. Both absent →
	// domain.ErrMissingIdentity; bad token → domain.ErrUnauthorized; unknown
	// or inactive API key → domain.ErrInvalidCredential.
	Resolve(ctx context.Context, bearerToken, apiKey string) (*domain.Identity, error)
	// Login authenticates by email/password and returns a signed token.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// CredentialRepository looks up API key credentials.
type CredentialRepository interface {
	// FindActiveByKey returns the credential for key when it exists and is
	// active; domain.ErrInvalidCredential otherwise.
	FindActiveByKey(ctx context.Context, key string) (*domain.APICredential, error)
}

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
