package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleMerchant = "merchant"
	RoleCourier  = "courier"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

// User models an authenticated actor: a merchant, a courier operator, or an
// admin.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	// SubjectID is the merchant or courier the account acts for; empty for admins.
	SubjectID string    `json:"subject_id,omitempty" bson:"subject_id,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// APICredential maps an API key to a merchant or courier identity for
// checkout-style public calls where no bearer token is available.
type APICredential struct {
	Key       string    `bson:"key"`
	SubjectID string    `bson:"subject_id"`
	Role      string    `bson:"role"`
	Active    bool      `bson:"active"`
	CreatedAt time.Time `bson:"created_at"`
}

// Identity is a resolved caller: subject id plus role, used to scope all
// subsequent queries. A verified token always wins over client-supplied ids.
type Identity struct {
	SubjectID string
	Role      string
}
