package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Roles carried in issued tokens.
const (
	RoleCustomer  = "customer"
	RoleOrganizer = "organizer"
)

// User represents a customer account
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(name, email, phone, passwordHash, salt string) *User {
	return &User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		Salt:         salt,
	}
}

// UserUpdate carries a partial profile update. Nil fields are left unchanged.
type UserUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

// UserRepository is the storage port for customer accounts.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// PasswordHasher hashes passwords with a per-account salt.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated account.
type TokenIssuer interface {
	Issue(subjectID, email, role string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated subject and role.
type TokenVerifier interface {
	Verify(token string) (subjectID, role string, err error)
}

// AuthService defines signup, login, and profile operations for customers.
type AuthService interface {
	Signup(ctx context.Context, name, email, password, phone string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, id string, upd *UserUpdate) (*User, error)
}
