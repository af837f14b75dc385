package domain

import (
	"context"
	"time"
)

// Organizer represents an elevated account that owns venues and manages
// meals and event lifecycle.
type Organizer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewOrganizer returns a new Organizer. ID is typically set by the repository on create.
func NewOrganizer(name, email, passwordHash, salt string) *Organizer {
	return &Organizer{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
	}
}

// OrganizerRepository defines the interface for organizer storage
type OrganizerRepository interface {
	Create(ctx context.Context, org *Organizer) error
	GetByEmail(ctx context.Context, email string) (*Organizer, error)
	GetByID(ctx context.Context, id string) (*Organizer, error)
}

// OrganizerService defines signup, login, and profile operations for organizers.
type OrganizerService interface {
	Signup(ctx context.Context, name, email, password string) (*Organizer, error)
	Login(ctx context.Context, email, password string) (token string, org *Organizer, err error)
	GetByID(ctx context.Context, id string) (*Organizer, error)
}
