package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"venuebooking/internal/domain"
)

type mealRepository struct {
	DB *sql.DB
}

func NewMealRepository(db *sql.DB) domain.MealRepository {
	return &mealRepository{DB: db}
}

const mealColumns = "id, name, description, cuisine, price_per_person, active, created_at, updated_at"

func (r *mealRepository) Create(ctx context.Context, m *domain.Meal) error {
	query := `
		INSERT INTO meals (name, description, cuisine, price_per_person, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		m.Name, nullString(m.Description), nullString(m.Cuisine),
		m.PricePerPerson, m.Active, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
}

func (r *mealRepository) GetByID(ctx context.Context, id string) (*domain.Meal, error) {
	query := `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE id = $1
	`
	m, err := scanMeal(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *mealRepository) List(ctx context.Context, activeOnly bool, p domain.PaginationParams) ([]*domain.Meal, int, error) {
	where := ""
	if activeOnly {
		where = "WHERE active = TRUE"
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM meals %s", where)
	if err := r.DB.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM meals
		%s
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`, mealColumns, where)
	rows, err := r.DB.QueryContext(ctx, query, p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	meals := make([]*domain.Meal, 0)
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, 0, err
		}
		meals = append(meals, m)
	}
	return meals, total, rows.Err()
}

func (r *mealRepository) Update(ctx context.Context, id string, upd *domain.MealUpdate) (*domain.Meal, error) {
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
	if upd.Cuisine != nil {
		setClauses = append(setClauses, fmt.Sprintf("cuisine = $%d", n))
		args = append(args, nullString(*upd.Cuisine))
		n++
	}
	if upd.PricePerPerson != nil {
		setClauses = append(setClauses, fmt.Sprintf("price_per_person = $%d", n))
		args = append(args, *upd.PricePerPerson)
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
		UPDATE meals SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, mealColumns)
	m, err := scanMeal(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *mealRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM meals WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == "23503" {
			// Referenced by events; surface as a conflict.
			return domain.ErrConflict
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMeal(s scanner) (*domain.Meal, error) {
	m := &domain.Meal{}
	var descNull, cuisineNull sql.NullString
	err := s.Scan(
		&m.ID, &m.Name, &descNull, &cuisineNull,
		&m.PricePerPerson, &m.Active, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if descNull.Valid {
		m.Description = descNull.String
	}
	if cuisineNull.Valid {
		m.Cuisine = cuisineNull.String
	}
	return m, nil
}
