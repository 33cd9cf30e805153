package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/performile/courier-platform/internal/core/domain"
)

const (
	collectionCredentials = "api_credentials"
	collectionUsers       = "users"
)

// CredentialRepository looks up API keys in the api_credentials collection.
type CredentialRepository struct {
	col *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{col: db.Collection(collectionCredentials)}
}

// FindActiveByKey returns the credential for key when it exists and is active.
// A miss maps to domain.ErrInvalidCredential so the caller cannot distinguish
// an unknown key from a revoked one.
func (r *CredentialRepository) FindActiveByKey(ctx context.Context, key string) (*domain.APICredential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var cred domain.APICredential
	err := r.col.FindOne(ctx, bson.M{"key": key, "active": true}).Decode(&cred)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidCredential
		}
		return nil, fmt.Errorf("credential lookup: %w", err)
	}
	return &cred, nil
}

// UserRepository handles user account persistence.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var user domain.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	return &user, nil
}
