package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/performile/courier-platform/internal/core/domain"
	"github.com/performile/courier-platform/internal/core/ports"
)

// IdentityService resolves caller identity from a bearer token or an API
// key, and issues tokens on login.
type IdentityService struct {
	users     ports.UserRepository
	creds     ports.CredentialRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewIdentityService(users ports.UserRepository, creds ports.CredentialRepository, jwtSecret string, tokenTTL time.Duration) *IdentityService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &IdentityService{users: users, creds: creds, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Resolve maps a bearer token or API key to an identity. A verified token
// always wins: client-supplied ids are never trusted when one is present.
// Error messages stay generic so a caller cannot probe which part of a
// credential was wrong.
func (s *IdentityService) Resolve(ctx context.Context, bearerToken, apiKey string) (*domain.Identity, error) {
	if bearerToken == "" && apiKey == "" {
		return nil, domain.ErrMissingIdentity
	}

	if bearerToken != "" {
		return s.resolveToken(bearerToken)
	}

	cred, err := s.creds.FindActiveByKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredential) {
			return nil, domain.ErrInvalidCredential
		}
		return nil, err
	}
	return &domain.Identity{SubjectID: cred.SubjectID, Role: cred.Role}, nil
}

func (s *IdentityService) resolveToken(token string) (*domain.Identity, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthorized
	}

	subjectID, _ := claims["subject_id"].(string)
	role, _ := claims["role"].(string)
	if role == "" {
		return nil, domain.ErrUnauthorized
	}
	return &domain.Identity{SubjectID: subjectID, Role: role}, nil
}

// Login authenticates by email and password and returns a signed token.
func (s *IdentityService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredential
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredential
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredential
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *IdentityService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"email":      user.Email,
		"role":       user.Role,
		"subject_id": user.SubjectID,
		"exp":        time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
