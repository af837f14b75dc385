package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"venuebooking/internal/domain"
)

type venueService struct {
	venueRepo      domain.VenueRepository
	mealRepo       domain.MealRepository
	eventRepo      domain.EventRepository
	pricer         domain.Pricer
	contextTimeout time.Duration
}

func NewVenueService(venueRepo domain.VenueRepository,
	mealRepo domain.MealRepository,
	eventRepo domain.EventRepository,
	pricer domain.Pricer,
	timeout time.Duration,
) domain.VenueService {
	return &venueService{
		venueRepo:      venueRepo,
		mealRepo:       mealRepo,
		eventRepo:      eventRepo,
		pricer:         pricer,
		contextTimeout: timeout,
	}
}

func (s *venueService) Create(ctx context.Context, venue *domain.Venue) (*domain.Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	venue.Name = strings.TrimSpace(venue.Name)
	if venue.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if venue.Capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be at least 1", domain.ErrInvalidInput)
	}
	if venue.DayRate.Sign() <= 0 || venue.HourRate.Sign() <= 0 {
		return nil, fmt.Errorf("%w: rates must be positive", domain.ErrInvalidInput)
	}

	now := time.Now()
	venue.CreatedAt = now
	venue.UpdatedAt = now
	venue.Active = true
	if err := s.venueRepo.Create(ctx, venue); err != nil {
		return nil, fmt.Errorf("create venue: %w", err)
	}
	return venue, nil
}

func (s *venueService) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	venue, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get venue: %w", err)
	}
	return venue, nil
}

func (s *venueService) List(ctx context.Context, filter domain.VenueFilter, p domain.PaginationParams) ([]*domain.Venue, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	venues, total, err := s.venueRepo.List(ctx, filter, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list venues: %w", err)
	}
	if venues == nil {
		venues = []*domain.Venue{}
	}
	return venues, total, nil
}

func (s *venueService) Update(ctx context.Context, organizerID, venueID string, upd *domain.VenueUpdate) (*domain.Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	venue, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get venue: %w", err)
	}
	if venue.OrganizerID != organizerID {
		return nil, domain.ErrForbidden
	}
	if upd.Capacity != nil && *upd.Capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be at least 1", domain.ErrInvalidInput)
	}
	if upd.DayRate != nil && upd.DayRate.Sign() <= 0 {
		return nil, fmt.Errorf("%w: day rate must be positive", domain.ErrInvalidInput)
	}
	if upd.HourRate != nil && upd.HourRate.Sign() <= 0 {
		return nil, fmt.Errorf("%w: hour rate must be positive", domain.ErrInvalidInput)
	}
	updated, err := s.venueRepo.Update(ctx, venueID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update venue: %w", err)
	}
	return updated, nil
}

func (s *venueService) Delete(ctx context.Context, organizerID, venueID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	venue, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get venue: %w", err)
	}
	if venue.OrganizerID != organizerID {
		return domain.ErrForbidden
	}
	upcoming, err := s.eventRepo.CountUpcomingByVenue(ctx, venueID, time.Now())
	if err != nil {
		return fmt.Errorf("count upcoming events: %w", err)
	}
	if upcoming > 0 {
		return fmt.Errorf("%w: venue has %d upcoming events", domain.ErrConflict, upcoming)
	}
	if err := s.venueRepo.Delete(ctx, venueID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete venue: %w", err)
	}
	return nil
}

// CheckAvailability runs the overlap scan for [start, end) at the venue.
// A conflict exists when the new start or end falls inside an existing
// non-cancelled event's interval, or the new interval contains one.
func (s *venueService) CheckAvailability(ctx context.Context, venueID string, start, end time.Time, excludeEventID string) (*domain.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !end.After(start) {
		return nil, fmt.Errorf("%w: end time must be after start time", domain.ErrInvalidInput)
	}
	if _, err := s.venueRepo.GetByID(ctx, venueID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get venue: %w", err)
	}
	conflicts, err := s.eventRepo.FindOverlapping(ctx, venueID, start, end, excludeEventID)
	if err != nil {
		return nil, fmt.Errorf("find overlapping events: %w", err)
	}
	if conflicts == nil {
		conflicts = []*domain.Event{}
	}
	return &domain.Availability{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

func (s *venueService) Quote(ctx context.Context, venueID, mealID string, start, end time.Time, people int) (*domain.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	venue, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get venue: %w", err)
	}
	var meal *domain.Meal
	if mealID != "" {
		meal, err = s.mealRepo.GetByID(ctx, mealID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("get meal: %w", err)
		}
	}
	quote, err := s.pricer.Price(venue, meal, start, end, people)
	if err != nil {
		return nil, err
	}
	return quote, nil
}
