package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"venuebooking/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = "id, user_id, venue_id, meal_id, name, start_time, end_time, people_count, venue_cost, meal_cost, tax, service_fee, total_cost, status, created_at, updated_at"

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (user_id, venue_id, meal_id, name, start_time, end_time, people_count, venue_cost, meal_cost, tax, service_fee, total_cost, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.UserID, e.VenueID, nullString(e.MealID), e.Name, e.StartTime, e.EndTime,
		e.PeopleCount, e.VenueCost, e.MealCost, e.Tax, e.ServiceFee, e.TotalCost,
		e.Status, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListByUserID(ctx context.Context, userID string, p domain.PaginationParams) ([]*domain.Event, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectEvents(rows, total)
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, p domain.PaginationParams) ([]*domain.Event, int, error) {
	whereClauses := []string{}
	args := []interface{}{}
	n := 1
	if filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", n))
		args = append(args, filter.Status)
		n++
	}
	if filter.VenueID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("venue_id = $%d", n))
		args = append(args, filter.VenueID)
		n++
	}
	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM events %s", where)
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		%s
		ORDER BY start_time DESC
		LIMIT $%d OFFSET $%d
	`, eventColumns, where, n, n+1)
	args = append(args, p.Limit(), p.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectEvents(rows, total)
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET meal_id = $2, name = $3, start_time = $4, end_time = $5, people_count = $6,
		    venue_cost = $7, meal_cost = $8, tax = $9, service_fee = $10, total_cost = $11,
		    status = $12, updated_at = $13
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.ID, nullString(e.MealID), e.Name, e.StartTime, e.EndTime, e.PeopleCount,
		e.VenueCost, e.MealCost, e.Tax, e.ServiceFee, e.TotalCost,
		e.Status, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) error {
	query := `
		UPDATE events
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindOverlapping returns non-cancelled events at the venue that clash with
// [start, end). An event clashes when the new start or end falls inside its
// interval, or the new interval fully contains it.
func (r *eventRepository) FindOverlapping(ctx context.Context, venueID string, start, end time.Time, excludeEventID string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE venue_id = $1
		  AND status <> 'cancelled'
		  AND (
			(start_time <= $2 AND $2 < end_time)
			OR (start_time < $3 AND $3 <= end_time)
			OR ($2 <= start_time AND end_time <= $3)
		  )
	`
	args := []interface{}{venueID, start, end}
	if excludeEventID != "" {
		query += " AND id <> $4"
		args = append(args, excludeEventID)
	}
	query += " ORDER BY start_time ASC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) CountUpcomingByVenue(ctx context.Context, venueID string, after time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM events
		WHERE venue_id = $1
		  AND status <> 'cancelled'
		  AND end_time > $2
	`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, venueID, after).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanEvent(s scanner) (*domain.Event, error) {
	e := &domain.Event{}
	var mealNull sql.NullString
	err := s.Scan(
		&e.ID, &e.UserID, &e.VenueID, &mealNull, &e.Name, &e.StartTime, &e.EndTime,
		&e.PeopleCount, &e.VenueCost, &e.MealCost, &e.Tax, &e.ServiceFee, &e.TotalCost,
		&e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if mealNull.Valid {
		e.MealID = mealNull.String
	}
	return e, nil
}

func collectEvents(rows *sql.Rows, total int) ([]*domain.Event, int, error) {
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}
