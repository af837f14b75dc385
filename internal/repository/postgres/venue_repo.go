package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"venuebooking/internal/domain"
)

type venueRepository struct {
	DB *sql.DB
}

func NewVenueRepository(db *sql.DB) domain.VenueRepository {
	return &venueRepository{DB: db}
}

const venueColumns = "id, organizer_id, name, description, address, city, capacity, day_rate, hour_rate, image_url, active, created_at, updated_at"

func (r *venueRepository) Create(ctx context.Context, v *domain.Venue) error {
	query := `
		INSERT INTO venues (organizer_id, name, description, address, city, capacity, day_rate, hour_rate, image_url, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		v.OrganizerID, v.Name, nullString(v.Description), v.Address, v.City,
		v.Capacity, v.DayRate, v.HourRate, nullString(v.ImageURL), v.Active,
		v.CreatedAt, v.UpdatedAt,
	).Scan(&v.ID)
}

func (r *venueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	query := `
		SELECT ` + venueColumns + `
		FROM venues
		WHERE id = $1
	`
	v, err := scanVenue(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *venueRepository) List(ctx context.Context, filter domain.VenueFilter, p domain.PaginationParams) ([]*domain.Venue, int, error) {
	whereClauses := []string{}
	args := []interface{}{}
	n := 1
	if !filter.IncludeInactive {
		whereClauses = append(whereClauses, "active = TRUE")
	}
	if filter.City != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("LOWER(city) = LOWER($%d)", n))
		args = append(args, filter.City)
		n++
	}
	if filter.MinCapacity > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("capacity >= $%d", n))
		args = append(args, filter.MinCapacity)
		n++
	}
	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM venues %s", where)
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM venues
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, venueColumns, where, n, n+1)
	args = append(args, p.Limit(), p.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	venues := make([]*domain.Venue, 0)
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, 0, err
		}
		venues = append(venues, v)
	}
	return venues, total, rows.Err()
}

func (r *venueRepository) Update(ctx context.Context, id string, upd *domain.VenueUpdate) (*domain.Venue, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if upd.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", n))
		args = append(args, *upd.Name)
		n++
	}
	if upd.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, nullString(*upd.Description))
		n++
	}
	if upd.Address != nil {
		setClauses = append(setClauses, fmt.Sprintf("address = $%d", n))
		args = append(args, *upd.Address)
		n++
	}
	if upd.City != nil {
		setClauses = append(setClauses, fmt.Sprintf("city = $%d", n))
		args = append(args, *upd.City)
		n++
	}
	if upd.Capacity != nil {
		setClauses = append(setClauses, fmt.Sprintf("capacity = $%d", n))
		args = append(args, *upd.Capacity)
		n++
	}
	if upd.DayRate != nil {
		setClauses = append(setClauses, fmt.Sprintf("day_rate = $%d", n))
		args = append(args, *upd.DayRate)
		n++
	}
	if upd.HourRate != nil {
		setClauses = append(setClauses, fmt.Sprintf("hour_rate = $%d", n))
		args = append(args, *upd.HourRate)
		n++
	}
	if upd.ImageURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("image_url = $%d", n))
		args = append(args, nullString(*upd.ImageURL))
		n++
	}
	if upd.Active != nil {
		setClauses = append(setClauses, fmt.Sprintf("active = $%d", n))
		args = append(args, *upd.Active)
		n++
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE venues SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, venueColumns)
	v, err := scanVenue(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *venueRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM venues WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanVenue(s scanner) (*domain.Venue, error) {
	v := &domain.Venue{}
	var descNull, imageNull sql.NullString
	err := s.Scan(
		&v.ID, &v.OrganizerID, &v.Name, &descNull, &v.Address, &v.City,
		&v.Capacity, &v.DayRate, &v.HourRate, &imageNull, &v.Active,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if descNull.Valid {
		v.Description = descNull.String
	}
	if imageNull.Valid {
		v.ImageURL = imageNull.String
	}
	return v, nil
}
