package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Meal represents a catering package priced per person
type Meal struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Cuisine        string          `json:"cuisine,omitempty"`
	PricePerPerson decimal.Decimal `json:"price_per_person"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewMeal returns a new Meal. ID is typically set by the repository on create.
func NewMeal(name, description, cuisine string, pricePerPerson decimal.Decimal) *Meal {
	return &Meal{
		Name:           name,
		Description:    description,
		Cuisine:        cuisine,
		PricePerPerson: pricePerPerson,
		Active:         true,
	}
}

// MealUpdate carries a partial meal update. Nil fields are left unchanged.
type MealUpdate struct {
	Name           *string
	Description    *string
	Cuisine        *string
	PricePerPerson *decimal.Decimal
	Active         *bool
}

// MealRepository defines the interface for meal storage
type MealRepository interface {
	Create(ctx context.Context, meal *Meal) error
	GetByID(ctx context.Context, id string) (*Meal, error)
	List(ctx context.Context, activeOnly bool, p PaginationParams) ([]*Meal, int, error)
	Update(ctx context.Context, id string, upd *MealUpdate) (*Meal, error)
	Delete(ctx context.Context, id string) error
}

// MealService defines catering catalog management.
type MealService interface {
	Create(ctx context.Context, meal *Meal) (*Meal, error)
	GetByID(ctx context.Context, id string) (*Meal, error)
	List(ctx context.Context, activeOnly bool, p PaginationParams) ([]*Meal, int, error)
	Update(ctx context.Context, id string, upd *MealUpdate) (*Meal, error)
	Delete(ctx context.Context, id string) error
}
