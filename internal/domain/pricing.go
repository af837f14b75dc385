package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the cost breakdown for booking a venue interval, before or at
// booking time. All amounts are rounded to 2 decimal places.
// swagger:model Quote
type Quote struct {
	VenueCost  decimal.Decimal `json:"venue_cost"`
	MealCost   decimal.Decimal `json:"meal_cost"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	ServiceFee decimal.Decimal `json:"service_fee"`
	TotalCost  decimal.Decimal `json:"total_cost"`
}

// Pricer computes the cost of booking a venue for an interval, with an
// optional meal for the given headcount. meal may be nil.
type Pricer interface {
	Price(venue *Venue, meal *Meal, start, end time.Time, people int) (*Quote, error)
}
