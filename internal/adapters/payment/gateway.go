package payment

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"venuebooking/internal/domain"
)

// Config holds tuning knobs for the simulated gateway.
type Config struct {
	// Delay is the fixed latency applied to every gateway call.
	Delay time.Duration
	// SuccessRate is the probability in [0, 1] that a charge succeeds.
	SuccessRate float64
}

type simulatedGateway struct {
	delay       time.Duration
	successRate float64
	randFloat   func() float64
}

// NewSimulatedGateway returns a PaymentGateway that fakes a card processor:
// every call sleeps the configured delay, charges succeed with the configured
// probability, and transaction ids are generated locally. Refunds always
// succeed. Not a real integration.
func NewSimulatedGateway(cfg Config) domain.PaymentGateway {
	rate := cfg.SuccessRate
	if rate < 0 || rate > 1 {
		rate = 0.8
	}
	return &simulatedGateway{
		delay:       cfg.Delay,
		successRate: rate,
		randFloat:   rand.Float64,
	}
}

func (g *simulatedGateway) Charge(ctx context.Context, amount decimal.Decimal, method string) (*domain.ChargeResult, error) {
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("invalid charge amount: %s", amount)
	}
	if err := g.wait(ctx); err != nil {
		return nil, err
	}
	return &domain.ChargeResult{
		TransactionID: "txn_" + uuid.NewString(),
		Succeeded:     g.randFloat() < g.successRate,
	}, nil
}

func (g *simulatedGateway) Refund(ctx context.Context, transactionID string) error {
	if transactionID == "" {
		return fmt.Errorf("missing transaction id")
	}
	return g.wait(ctx)
}

func (g *simulatedGateway) wait(ctx context.Context) error {
	if g.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(g.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
