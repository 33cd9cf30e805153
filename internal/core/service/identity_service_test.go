package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/performile/courier-platform/internal/core/domain"
)

const testSecret = "test-secret"

type stubUserRepo struct {
	users map[string]*domain.User
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

type stubCredRepo struct {
	creds map[string]*domain.APICredential
}

func (r *stubCredRepo) FindActiveByKey(_ context.Context, key string) (*domain.APICredential, error) {
	c, ok := r.creds[key]
	if !ok || !c.Active {
		return nil, domain.ErrInvalidCredential
	}
	clone := *c
	return &clone, nil
}

func newIdentityService(users map[string]*domain.User, creds map[string]*domain.APICredential) *IdentityService {
	return NewIdentityService(&stubUserRepo{users: users}, &stubCredRepo{creds: creds}, testSecret, time.Hour)
}

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// ---------------------------------------------------------------------------
// Resolve
// ---------------------------------------------------------------------------

func TestIdentityService_Resolve_BothAbsent(t *testing.T) {
	svc := newIdentityService(nil, nil)

	_, err := svc.Resolve(context.Background(), "", "")
	if !errors.Is(err, domain.ErrMissingIdentity) {
		t.Fatalf("expected ErrMissingIdentity, got %v", err)
	}
}

func TestIdentityService_Resolve_ValidToken(t *testing.T) {
	svc := newIdentityService(nil, nil)
	token := signedToken(t, testSecret, jwt.MapClaims{
		"subject_id": "merchant_1",
		"role":       domain.RoleMerchant,
		"exp":        time.Now().Add(time.Hour).Unix(),
	})

	ident, err := svc.Resolve(context.Background(), token, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ident.SubjectID != "merchant_1" || ident.Role != domain.RoleMerchant {
		t.Errorf("unexpected identity: %+v", ident)
	}
}

func TestIdentityService_Resolve_TokenWinsOverKey(t *testing.T) {
	svc := newIdentityService(nil, map[string]*domain.APICredential{
		"pk_live_1": {Key: "pk_live_1", SubjectID: "merchant_other", Role: domain.RoleMerchant, Active: true},
	})
	token := signedToken(t, testSecret, jwt.MapClaims{
		"subject_id": "merchant_1",
		"role":       domain.RoleMerchant,
		"exp":        time.Now().Add(time.Hour).Unix(),
	})

	ident, err := svc.Resolve(context.Background(), token, "pk_live_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ident.SubjectID != "merchant_1" {
		t.Errorf("verified token must win over the API key, got %q", ident.SubjectID)
	}
}

func TestIdentityService_Resolve_BadSignature(t *testing.T) {
	svc := newIdentityService(nil, nil)
	token := signedToken(t, "wrong-secret", jwt.MapClaims{
		"subject_id": "merchant_1",
		"role":       domain.RoleMerchant,
		"exp":        time.Now().Add(time.Hour).Unix(),
	})

	_, err := svc.Resolve(context.Background(), token, "")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestIdentityService_Resolve_ExpiredToken(t *testing.T) {
	svc := newIdentityService(nil, nil)
	token := signedToken(t, testSecret, jwt.MapClaims{
		"subject_id": "merchant_1",
		"role":       domain.RoleMerchant,
		"exp":        time.Now().Add(-time.Hour).Unix(),
	})

	_, err := svc.Resolve(context.Background(), token, "")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestIdentityService_Resolve_APIKey(t *testing.T) {
	svc := newIdentityService(nil, map[string]*domain.APICredential{
		"pk_live_1": {Key: "pk_live_1", SubjectID: "merchant_1", Role: domain.RoleMerchant, Active: true},
	})

	ident, err := svc.Resolve(context.Background(), "", "pk_live_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ident.SubjectID != "merchant_1" {
		t.Errorf("subject: want merchant_1, got %q", ident.SubjectID)
	}
}

func TestIdentityService_Resolve_UnknownOrInactiveKey(t *testing.T) {
	svc := newIdentityService(nil, map[string]*domain.APICredential{
		"pk_revoked": {Key: "pk_revoked", SubjectID: "merchant_1", Role: domain.RoleMerchant, Active: false},
	})

	for _, key := range []string{"pk_unknown", "pk_revoked"} {
		_, err := svc.Resolve(context.Background(), "", key)
		if !errors.Is(err, domain.ErrInvalidCredential) {
			t.Errorf("key %q: expected ErrInvalidCredential, got %v", key, err)
		}
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func seedUser(t *testing.T, email, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return &domain.User{
		ID:           "user_1",
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleMerchant,
		SubjectID:    "merchant_1",
	}
}

func TestIdentityService_Login_Success(t *testing.T) {
	user := seedUser(t, "merchant@example.com", "hunter2")
	svc := newIdentityService(map[string]*domain.User{user.Email: user}, nil)

	token, got, err := svc.Login(context.Background(), "merchant@example.com", "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a signed token")
	}
	if got.Email != user.Email {
		t.Errorf("user: want %q, got %q", user.Email, got.Email)
	}

	// The issued token must resolve back to the same identity.
	ident, err := svc.Resolve(context.Background(), token, "")
	if err != nil {
		t.Fatalf("issued token failed to resolve: %v", err)
	}
	if ident.SubjectID != "merchant_1" || ident.Role != domain.RoleMerchant {
		t.Errorf("unexpected identity from issued token: %+v", ident)
	}
}

func TestIdentityService_Login_WrongPassword(t *testing.T) {
	user := seedUser(t, "merchant@example.com", "hunter2")
	svc := newIdentityService(map[string]*domain.User{user.Email: user}, nil)

	_, _, err := svc.Login(context.Background(), "merchant@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestIdentityService_Login_UnknownUser(t *testing.T) {
	svc := newIdentityService(nil, nil)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "pw")
	if !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("unknown users must not be distinguishable: got %v", err)
	}
}
