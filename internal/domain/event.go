package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrVenueUnavailable is returned when the requested interval overlaps a
// non-cancelled event at the same venue.
var ErrVenueUnavailable = errors.New("venue unavailable for the requested interval")

// EventStatus is the lifecycle state of a booked event.
type EventStatus string

const (
	EventPending   EventStatus = "pending"
	EventConfirmed EventStatus = "confirmed"
	EventCancelled EventStatus = "cancelled"
)

// Event represents a venue booking for a time interval
// swagger:model Event
type Event struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	VenueID     string          `json:"venue_id"`
	MealID      string          `json:"meal_id,omitempty"`
	Name        string          `json:"name"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     time.Time       `json:"end_time"`
	PeopleCount int             `json:"people_count"`
	VenueCost   decimal.Decimal `json:"venue_cost"`
	MealCost    decimal.Decimal `json:"meal_cost"`
	Tax         decimal.Decimal `json:"tax"`
	ServiceFee  decimal.Decimal `json:"service_fee"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	Status      EventStatus     `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BookingRequest is the input for creating an event.
type BookingRequest struct {
	VenueID     string
	MealID      string
	Name        string
	StartTime   time.Time
	EndTime     time.Time
	PeopleCount int
}

// EventUpdate carries a partial event update. Nil fields are left unchanged.
// Changing the interval or headcount triggers a fresh availability check and
// cost computation.
type EventUpdate struct {
	Name        *string
	MealID      *string
	StartTime   *time.Time
	EndTime     *time.Time
	PeopleCount *int
}

// EventFilter narrows organizer event listings. Zero values mean no filtering.
type EventFilter struct {
	Status  EventStatus
	VenueID string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByUserID(ctx context.Context, userID string, p PaginationParams) ([]*Event, int, error)
	List(ctx context.Context, filter EventFilter, p PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, event *Event) error
	UpdateStatus(ctx context.Context, id string, status EventStatus) error
	// FindOverlapping returns non-cancelled events at the venue whose
	// interval overlaps [start, end). excludeEventID, when non-empty, is
	// left out of the result.
	FindOverlapping(ctx context.Context, venueID string, start, end time.Time, excludeEventID string) ([]*Event, error)
	// CountUpcomingByVenue counts non-cancelled events at the venue that
	// end after the given instant.
	CountUpcomingByVenue(ctx context.Context, venueID string, after time.Time) (int, error)
}

// BookingService defines the event booking lifecycle.
type BookingService interface {
	Book(ctx context.Context, userID string, req *BookingRequest) (*Event, error)
	GetEvent(ctx context.Context, eventID, callerID, callerRole string) (*Event, error)
	ListMine(ctx context.Context, userID string, p PaginationParams) ([]*Event, int, error)
	ListAll(ctx context.Context, filter EventFilter, p PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, eventID, userID string, upd *EventUpdate) (*Event, error)
	Cancel(ctx context.Context, eventID, callerID, callerRole string) (*Event, error)
	Confirm(ctx context.Context, eventID string) (*Event, error)
}
