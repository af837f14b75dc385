package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"venuebooking/internal/domain"
)

var hundred = decimal.NewFromInt(100)

type priceCalculator struct {
	taxRate        decimal.Decimal
	serviceFeeRate decimal.Decimal
}

// NewPriceCalculator returns a Pricer applying the given tax and service fee
// percentages on top of venue and meal costs.
func NewPriceCalculator(taxRatePercent, serviceFeePercent float64) domain.Pricer {
	return &priceCalculator{
		taxRate:        decimal.NewFromFloat(taxRatePercent),
		serviceFeeRate: decimal.NewFromFloat(serviceFeePercent),
	}
}

// Price computes the booking cost breakdown. Intervals of a day or longer are
// billed per started day at the venue's day rate; shorter ones per started
// hour at the hour rate. The meal adds price_per_person for each guest.
// Tax and service fee apply to the subtotal; every figure is rounded to
// 2 decimal places, half up.
func (c *priceCalculator) Price(venue *domain.Venue, meal *domain.Meal, start, end time.Time, people int) (*domain.Quote, error) {
	if venue == nil {
		return nil, fmt.Errorf("%w: venue is required", domain.ErrInvalidInput)
	}
	duration := end.Sub(start)
	if duration <= 0 {
		return nil, fmt.Errorf("%w: end time must be after start time", domain.ErrInvalidInput)
	}
	if people < 1 {
		return nil, fmt.Errorf("%w: people count must be at least 1", domain.ErrInvalidInput)
	}

	var venueCost decimal.Decimal
	if duration >= 24*time.Hour {
		days := int64(duration / (24 * time.Hour))
		if duration%(24*time.Hour) != 0 {
			days++
		}
		venueCost = venue.DayRate.Mul(decimal.NewFromInt(days))
	} else {
		hours := int64(duration / time.Hour)
		if duration%time.Hour != 0 {
			hours++
		}
		venueCost = venue.HourRate.Mul(decimal.NewFromInt(hours))
	}

	mealCost := decimal.Zero
	if meal != nil {
		mealCost = meal.PricePerPerson.Mul(decimal.NewFromInt(int64(people)))
	}

	subtotal := venueCost.Add(mealCost)
	tax := subtotal.Mul(c.taxRate).Div(hundred).Round(2)
	fee := subtotal.Mul(c.serviceFeeRate).Div(hundred).Round(2)

	return &domain.Quote{
		VenueCost:  venueCost.Round(2),
		MealCost:   mealCost.Round(2),
		Subtotal:   subtotal.Round(2),
		Tax:        tax,
		ServiceFee: fee,
		TotalCost:  subtotal.Add(tax).Add(fee).Round(2),
	}, nil
}
