package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"venuebooking/internal/domain"
)

type organizerService struct {
	organizerRepo  domain.OrganizerRepository
	hasher         domain.PasswordHasher
	tokenIssuer    domain.TokenIssuer
	tokenExpiry    time.Duration
	contextTimeout time.Duration
}

// NewOrganizerService creates an OrganizerService. Registration is open;
// organizer tokens carry the organizer role.
func NewOrganizerService(organizerRepo domain.OrganizerRepository, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, tokenExpiry, timeout time.Duration) domain.OrganizerService {
	return &organizerService{
		organizerRepo:  organizerRepo,
		hasher:         hasher,
		tokenIssuer:    tokenIssuer,
		tokenExpiry:    tokenExpiry,
		contextTimeout: timeout,
	}
}

func (s *organizerService) Signup(ctx context.Context, name, email, password string) (*domain.Organizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	org := domain.NewOrganizer(strings.TrimSpace(name), email, hash, salt)
	org.CreatedAt = now
	org.UpdatedAt = now
	if err := s.organizerRepo.Create(ctx, org); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create organizer: %w", err)
	}
	return org, nil
}

func (s *organizerService) Login(ctx context.Context, email, password string) (string, *domain.Organizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	org, err := s.organizerRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get organizer: %w", err)
	}
	if err := s.hasher.Compare(org.PasswordHash, org.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(org.ID, org.Email, domain.RoleOrganizer, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, org, nil
}

func (s *organizerService) GetByID(ctx context.Context, id string) (*domain.Organizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	org, err := s.organizerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get organizer: %w", err)
	}
	return org, nil
}
