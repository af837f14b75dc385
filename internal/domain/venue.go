package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Venue represents a bookable venue owned by an organizer
// swagger:model Venue
type Venue struct {
	ID          string          `json:"id"`
	OrganizerID string          `json:"organizer_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	Capacity    int             `json:"capacity"`
	DayRate     decimal.Decimal `json:"day_rate"`
	HourRate    decimal.Decimal `json:"hour_rate"`
	ImageURL    string          `json:"image_url,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewVenue returns a new Venue with the given fields. ID is typically set by the repository on create.
func NewVenue(organizerID, name, description, address, city string, capacity int, dayRate, hourRate decimal.Decimal) *Venue {
	return &Venue{
		OrganizerID: organizerID,
		Name:        name,
		Description: description,
		Address:     address,
		City:        city,
		Capacity:    capacity,
		DayRate:     dayRate,
		HourRate:    hourRate,
		Active:      true,
	}
}

// VenueFilter narrows venue list queries. Zero values mean no filtering.
type VenueFilter struct {
	City        string
	MinCapacity int
	// IncludeInactive is set for organizer listings; public listings only
	// see active venues.
	IncludeInactive bool
}

// VenueUpdate carries a partial venue update. Nil fields are left unchanged.
type VenueUpdate struct {
	Name        *string
	Description *string
	Address     *string
	City        *string
	Capacity    *int
	DayRate     *decimal.Decimal
	HourRate    *decimal.Decimal
	ImageURL    *string
	Active      *bool
}

// Availability is the result of the venue overlap check: whether the
// requested interval is free, and the non-cancelled events that clash
// with it when it is not.
type Availability struct {
	Available bool     `json:"available"`
	Conflicts []*Event `json:"conflicts"`
}

// VenueRepository defines the interface for venue storage
type VenueRepository interface {
	Create(ctx context.Context, venue *Venue) error
	GetByID(ctx context.Context, id string) (*Venue, error)
	List(ctx context.Context, filter VenueFilter, p PaginationParams) ([]*Venue, int, error)
	Update(ctx context.Context, id string, upd *VenueUpdate) (*Venue, error)
	Delete(ctx context.Context, id string) error
}

// VenueService defines venue catalog management and the availability check.
type VenueService interface {
	Create(ctx context.Context, venue *Venue) (*Venue, error)
	GetByID(ctx context.Context, id string) (*Venue, error)
	List(ctx context.Context, filter VenueFilter, p PaginationParams) ([]*Venue, int, error)
	Update(ctx context.Context, organizerID, venueID string, upd *VenueUpdate) (*Venue, error)
	Delete(ctx context.Context, organizerID, venueID string) error
	// CheckAvailability reports whether [start, end) is free at the venue.
	// excludeEventID, when non-empty, leaves that event out of the check
	// so reschedules do not collide with themselves.
	CheckAvailability(ctx context.Context, venueID string, start, end time.Time, excludeEventID string) (*Availability, error)
	// Quote prices an interval at the venue without creating a booking.
	Quote(ctx context.Context, venueID, mealID string, start, end time.Time, people int) (*Quote, error)
}
