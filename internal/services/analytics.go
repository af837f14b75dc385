package services

import (
	"context"
	"fmt"
	"time"

	"venuebooking/internal/domain"
)

const topVenuesLimit = 10

type analyticsService struct {
	analyticsRepo  domain.AnalyticsRepository
	contextTimeout time.Duration
}

func NewAnalyticsService(analyticsRepo domain.AnalyticsRepository, timeout time.Duration) domain.AnalyticsService {
	return &analyticsService{analyticsRepo: analyticsRepo, contextTimeout: timeout}
}

// RevenueReport aggregates payments and events created in [from, to). Total
// revenue counts every charged payment, refunded or not; net revenue
// subtracts the refunded amounts.
func (s *analyticsService) RevenueReport(ctx context.Context, from, to time.Time) (*domain.RevenueReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", domain.ErrInvalidInput)
	}

	total, refunded, paymentCount, err := s.analyticsRepo.RevenueTotals(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("revenue totals: %w", err)
	}
	counts, err := s.analyticsRepo.EventCountsByStatus(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("event counts: %w", err)
	}
	if counts == nil {
		counts = map[domain.EventStatus]int{}
	}
	topVenues, err := s.analyticsRepo.TopVenuesByRevenue(ctx, from, to, topVenuesLimit)
	if err != nil {
		return nil, fmt.Errorf("top venues: %w", err)
	}
	if topVenues == nil {
		topVenues = []*domain.VenueRevenue{}
	}

	return &domain.RevenueReport{
		From:           from,
		To:             to,
		TotalRevenue:   total,
		RefundedTotal:  refunded,
		NetRevenue:     total.Sub(refunded),
		PaymentCount:   paymentCount,
		EventsByStatus: counts,
		TopVenues:      topVenues,
	}, nil
}
