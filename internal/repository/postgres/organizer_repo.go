package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"venuebooking/internal/domain"
)

type organizerRepository struct {
	DB *sql.DB
}

func NewOrganizerRepository(db *sql.DB) domain.OrganizerRepository {
	return &organizerRepository{DB: db}
}

func (r *organizerRepository) Create(ctx context.Context, o *domain.Organizer) error {
	query := `
		INSERT INTO organizers (name, email, password_hash, salt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, o.Name, o.Email, o.PasswordHash, o.Salt, o.CreatedAt, o.UpdatedAt).Scan(&o.ID)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == "23505" {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *organizerRepository) GetByEmail(ctx context.Context, email string) (*domain.Organizer, error) {
	query := `
		SELECT id, name, email, password_hash, salt, created_at, updated_at
		FROM organizers
		WHERE email = $1
	`
	return r.scanOrganizer(r.DB.QueryRowContext(ctx, query, email))
}

func (r *organizerRepository) GetByID(ctx context.Context, id string) (*domain.Organizer, error) {
	query := `
		SELECT id, name, email, password_hash, salt, created_at, updated_at
		FROM organizers
		WHERE id = $1
	`
	return r.scanOrganizer(r.DB.QueryRowContext(ctx, query, id))
}

func (r *organizerRepository) scanOrganizer(row *sql.Row) (*domain.Organizer, error) {
	o := &domain.Organizer{}
	err := row.Scan(&o.ID, &o.Name, &o.Email, &o.PasswordHash, &o.Salt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}
