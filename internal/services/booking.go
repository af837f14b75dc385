package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"venuebooking/internal/domain"
	"venuebooking/internal/metrics"
)

type bookingService struct {
	eventRepo      domain.EventRepository
	venueRepo      domain.VenueRepository
	mealRepo       domain.MealRepository
	paymentRepo    domain.PaymentRepository
	gateway        domain.PaymentGateway
	pricer         domain.Pricer
	contextTimeout time.Duration
}

func NewBookingService(eventRepo domain.EventRepository,
	venueRepo domain.VenueRepository,
	mealRepo domain.MealRepository,
	paymentRepo domain.PaymentRepository,
	gateway domain.PaymentGateway,
	pricer domain.Pricer,
	timeout time.Duration,
) domain.BookingService {
	return &bookingService{
		eventRepo:      eventRepo,
		venueRepo:      venueRepo,
		mealRepo:       mealRepo,
		paymentRepo:    paymentRepo,
		gateway:        gateway,
		pricer:         pricer,
		contextTimeout: timeout,
	}
}

// Book creates a pending event for the user. The sequence is ordered: load
// and validate the venue and meal, validate the interval and headcount, run
// the availability check, price the booking, then insert. The availability
// check and the insert are not atomic; the window is accepted.
func (s *bookingService) Book(ctx context.Context, userID string, req *domain.BookingRequest) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", domain.ErrInvalidInput)
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, fmt.Errorf("%w: event name is required", domain.ErrInvalidInput)
	}

	venue, err := s.venueRepo.GetByID(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: venue %s", domain.ErrNotFound, req.VenueID)
		}
		return nil, fmt.Errorf("get venue: %w", err)
	}
	if !venue.Active {
		return nil, fmt.Errorf("%w: venue is not active", domain.ErrInvalidInput)
	}

	var meal *domain.Meal
	if req.MealID != "" {
		meal, err = s.mealRepo.GetByID(ctx, req.MealID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: meal %s", domain.ErrNotFound, req.MealID)
			}
			return nil, fmt.Errorf("get meal: %w", err)
		}
		if !meal.Active {
			return nil, fmt.Errorf("%w: meal is not active", domain.ErrInvalidInput)
		}
	}

	if err := validateInterval(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if req.PeopleCount < 1 {
		return nil, fmt.Errorf("%w: people count must be at least 1", domain.ErrInvalidInput)
	}
	if req.PeopleCount > venue.Capacity {
		return nil, fmt.Errorf("%w: people count %d exceeds venue capacity %d", domain.ErrInvalidInput, req.PeopleCount, venue.Capacity)
	}

	conflicts, err := s.eventRepo.FindOverlapping(ctx, venue.ID, req.StartTime, req.EndTime, "")
	if err != nil {
		return nil, fmt.Errorf("find overlapping events: %w", err)
	}
	if len(conflicts) > 0 {
		metrics.RecordBooking("conflict")
		return nil, fmt.Errorf("%w: conflicts with events %s", domain.ErrVenueUnavailable, joinEventIDs(conflicts))
	}

	quote, err := s.pricer.Price(venue, meal, req.StartTime, req.EndTime, req.PeopleCount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	event := &domain.Event{
		UserID:      userID,
		VenueID:     venue.ID,
		MealID:      req.MealID,
		Name:        req.Name,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		PeopleCount: req.PeopleCount,
		VenueCost:   quote.VenueCost,
		MealCost:    quote.MealCost,
		Tax:         quote.Tax,
		ServiceFee:  quote.ServiceFee,
		TotalCost:   quote.TotalCost,
		Status:      domain.EventPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		metrics.RecordBooking("error")
		return nil, fmt.Errorf("create event: %w", err)
	}
	metrics.RecordBooking("created")
	return event, nil
}

func (s *bookingService) GetEvent(ctx context.Context, eventID, callerID, callerRole string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if callerRole != domain.RoleOrganizer && event.UserID != callerID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func (s *bookingService) ListMine(ctx context.Context, userID string, p domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.ListByUserID(ctx, userID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

func (s *bookingService) ListAll(ctx context.Context, filter domain.EventFilter, p domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.List(ctx, filter, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

// Update reschedules or resizes a pending event owned by the caller. The
// availability check reruns with the event's own id excluded, and costs are
// recomputed from the effective venue, meal, interval, and headcount.
func (s *bookingService) Update(ctx context.Context, eventID, userID string, upd *domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if event.Status != domain.EventPending {
		return nil, fmt.Errorf("%w: only pending events can be updated", domain.ErrConflict)
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: event name is required", domain.ErrInvalidInput)
		}
		event.Name = name
	}
	if upd.MealID != nil {
		event.MealID = strings.TrimSpace(*upd.MealID)
	}
	if upd.StartTime != nil {
		event.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		event.EndTime = *upd.EndTime
	}
	if upd.PeopleCount != nil {
		event.PeopleCount = *upd.PeopleCount
	}

	venue, err := s.venueRepo.GetByID(ctx, event.VenueID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get venue: %w", err)
	}

	var meal *domain.Meal
	if event.MealID != "" {
		meal, err = s.mealRepo.GetByID(ctx, event.MealID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: meal %s", domain.ErrNotFound, event.MealID)
			}
			return nil, fmt.Errorf("get meal: %w", err)
		}
		if !meal.Active {
			return nil, fmt.Errorf("%w: meal is not active", domain.ErrInvalidInput)
		}
	}

	if err := validateInterval(event.StartTime, event.EndTime); err != nil {
		return nil, err
	}
	if event.PeopleCount < 1 {
		return nil, fmt.Errorf("%w: people count must be at least 1", domain.ErrInvalidInput)
	}
	if event.PeopleCount > venue.Capacity {
		return nil, fmt.Errorf("%w: people count %d exceeds venue capacity %d", domain.ErrInvalidInput, event.PeopleCount, venue.Capacity)
	}

	conflicts, err := s.eventRepo.FindOverlapping(ctx, event.VenueID, event.StartTime, event.EndTime, event.ID)
	if err != nil {
		return nil, fmt.Errorf("find overlapping events: %w", err)
	}
	if len(conflicts) > 0 {
		metrics.RecordBooking("conflict")
		return nil, fmt.Errorf("%w: conflicts with events %s", domain.ErrVenueUnavailable, joinEventIDs(conflicts))
	}

	quote, err := s.pricer.Price(venue, meal, event.StartTime, event.EndTime, event.PeopleCount)
	if err != nil {
		return nil, err
	}
	event.VenueCost = quote.VenueCost
	event.MealCost = quote.MealCost
	event.Tax = quote.Tax
	event.ServiceFee = quote.ServiceFee
	event.TotalCost = quote.TotalCost
	event.UpdatedAt = time.Now()

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// Cancel moves a pending or confirmed event to cancelled and refunds its
// successful payments through the gateway. Owners and organizers may cancel.
func (s *bookingService) Cancel(ctx context.Context, eventID, callerID, callerRole string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if callerRole != domain.RoleOrganizer && event.UserID != callerID {
		return nil, domain.ErrForbidden
	}
	if event.Status == domain.EventCancelled {
		return nil, fmt.Errorf("%w: event already cancelled", domain.ErrConflict)
	}

	payments, err := s.paymentRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	for _, p := range payments {
		if p.Status != domain.PaymentSuccess {
			continue
		}
		if err := s.gateway.Refund(ctx, p.TransactionID); err != nil {
			return nil, fmt.Errorf("refund payment %s: %w", p.ID, err)
		}
		if err := s.paymentRepo.UpdateStatus(ctx, p.ID, domain.PaymentRefunded, p.TransactionID); err != nil {
			return nil, fmt.Errorf("mark payment refunded: %w", err)
		}
		metrics.RecordPayment(string(domain.PaymentRefunded))
	}

	if err := s.eventRepo.UpdateStatus(ctx, eventID, domain.EventCancelled); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("cancel event: %w", err)
	}
	event.Status = domain.EventCancelled
	event.UpdatedAt = time.Now()
	return event, nil
}

// Confirm marks a pending event confirmed without a payment, e.g. when the
// organizer settles offline.
func (s *bookingService) Confirm(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Status != domain.EventPending {
		return nil, fmt.Errorf("%w: only pending events can be confirmed", domain.ErrConflict)
	}
	if err := s.eventRepo.UpdateStatus(ctx, eventID, domain.EventConfirmed); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("confirm event: %w", err)
	}
	event.Status = domain.EventConfirmed
	event.UpdatedAt = time.Now()
	return event, nil
}

func validateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end times are required", domain.ErrInvalidInput)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end time must be after start time", domain.ErrInvalidInput)
	}
	if start.Before(time.Now()) {
		return fmt.Errorf("%w: start time must be in the future", domain.ErrInvalidInput)
	}
	return nil
}

func joinEventIDs(events []*domain.Event) string {
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return strings.Join(ids, ", ")
}
