package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// VenueRevenue is one venue's revenue line in the report.
type VenueRevenue struct {
	VenueID    string          `json:"venue_id"`
	VenueName  string          `json:"venue_name"`
	Revenue    decimal.Decimal `json:"revenue"`
	EventCount int             `json:"event_count"`
}

// RevenueReport aggregates payment revenue and event activity over a window.
// swagger:model RevenueReport
type RevenueReport struct {
	From           time.Time              `json:"from"`
	To             time.Time              `json:"to"`
	TotalRevenue   decimal.Decimal        `json:"total_revenue"`
	RefundedTotal  decimal.Decimal        `json:"refunded_total"`
	NetRevenue     decimal.Decimal        `json:"net_revenue"`
	PaymentCount   int                    `json:"payment_count"`
	EventsByStatus map[EventStatus]int    `json:"events_by_status"`
	TopVenues      []*VenueRevenue        `json:"top_venues"`
}

// AnalyticsRepository defines the revenue aggregation queries.
type AnalyticsRepository interface {
	RevenueTotals(ctx context.Context, from, to time.Time) (total, refunded decimal.Decimal, paymentCount int, err error)
	EventCountsByStatus(ctx context.Context, from, to time.Time) (map[EventStatus]int, error)
	TopVenuesByRevenue(ctx context.Context, from, to time.Time, limit int) ([]*VenueRevenue, error)
}

// AnalyticsService builds revenue reports for organizers.
type AnalyticsService interface {
	RevenueReport(ctx context.Context, from, to time.Time) (*RevenueReport, error)
}
