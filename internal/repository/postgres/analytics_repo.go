package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"venuebooking/internal/domain"
)

type analyticsRepository struct {
	DB *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) domain.AnalyticsRepository {
	return &analyticsRepository{DB: db}
}

// RevenueTotals sums charged payments in [from, to). Refunded payments count
// toward the charged total; the service derives net revenue from the two sums.
func (r *analyticsRepository) RevenueTotals(ctx context.Context, from, to time.Time) (decimal.Decimal, decimal.Decimal, int, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status IN ('success', 'refunded')), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = 'refunded'), 0),
			COUNT(*) FILTER (WHERE status IN ('success', 'refunded'))
		FROM payments
		WHERE created_at >= $1 AND created_at < $2
	`
	var total, refunded decimal.Decimal
	var count int
	err := r.DB.QueryRowContext(ctx, query, from, to).Scan(&total, &refunded, &count)
	if err != nil {
		return decimal.Zero, decimal.Zero, 0, err
	}
	return total, refunded, count, nil
}

func (r *analyticsRepository) EventCountsByStatus(ctx context.Context, from, to time.Time) (map[domain.EventStatus]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM events
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY status
	`
	rows, err := r.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[domain.EventStatus]int)
	for rows.Next() {
		var status domain.EventStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *analyticsRepository) TopVenuesByRevenue(ctx context.Context, from, to time.Time, limit int) ([]*domain.VenueRevenue, error) {
	query := `
		SELECT v.id, v.name, COALESCE(SUM(p.amount), 0) AS revenue, COUNT(DISTINCT e.id) AS event_count
		FROM payments p
		JOIN events e ON e.id = p.event_id
		JOIN venues v ON v.id = e.venue_id
		WHERE p.status = 'success'
		  AND p.created_at >= $1 AND p.created_at < $2
		GROUP BY v.id, v.name
		ORDER BY revenue DESC
		LIMIT $3
	`
	rows, err := r.DB.QueryContext(ctx, query, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	venues := make([]*domain.VenueRevenue, 0)
	for rows.Next() {
		v := &domain.VenueRevenue{}
		if err := rows.Scan(&v.VenueID, &v.VenueName, &v.Revenue, &v.EventCount); err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}
