package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"venuebooking/internal/domain"
)

type mealService struct {
	mealRepo       domain.MealRepository
	contextTimeout time.Duration
}

func NewMealService(mealRepo domain.MealRepository, timeout time.Duration) domain.MealService {
	return &mealService{
		mealRepo:       mealRepo,
		contextTimeout: timeout,
	}
}

func (s *mealService) Create(ctx context.Context, meal *domain.Meal) (*domain.Meal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	meal.Name = strings.TrimSpace(meal.Name)
	if meal.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if meal.PricePerPerson.Sign() <= 0 {
		return nil, fmt.Errorf("%w: price per person must be positive", domain.ErrInvalidInput)
	}

	now := time.Now()
	meal.CreatedAt = now
	meal.UpdatedAt = now
	meal.Active = true
	if err := s.mealRepo.Create(ctx, meal); err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}
	return meal, nil
}

func (s *mealService) GetByID(ctx context.Context, id string) (*domain.Meal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	meal, err := s.mealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get meal: %w", err)
	}
	return meal, nil
}

func (s *mealService) List(ctx context.Context, activeOnly bool, p domain.PaginationParams) ([]*domain.Meal, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	meals, total, err := s.mealRepo.List(ctx, activeOnly, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list meals: %w", err)
	}
	if meals == nil {
		meals = []*domain.Meal{}
	}
	return meals, total, nil
}

func (s *mealService) Update(ctx context.Context, id string, upd *domain.MealUpdate) (*domain.Meal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if upd.PricePerPerson != nil && upd.PricePerPerson.Sign() <= 0 {
		return nil, fmt.Errorf("%w: price per person must be positive", domain.ErrInvalidInput)
	}
	meal, err := s.mealRepo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update meal: %w", err)
	}
	return meal, nil
}

func (s *mealService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.mealRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		if errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("%w: meal is referenced by events", domain.ErrConflict)
		}
		return fmt.Errorf("delete meal: %w", err)
	}
	return nil
}
