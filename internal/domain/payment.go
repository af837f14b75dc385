package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel errors for payment operations.
var (
	ErrAlreadyPaid     = errors.New("event already paid")
	ErrEventNotPayable = errors.New("event is not payable")
)

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentSuccess  PaymentStatus = "success"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Payment represents a charge attempt against an event
// swagger:model Payment
type Payment struct {
	ID            string          `json:"id"`
	EventID       string          `json:"event_id"`
	UserID        string          `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        PaymentStatus   `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Method        string          `json:"method"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ChargeResult is the gateway's answer to a charge attempt.
type ChargeResult struct {
	TransactionID string
	Succeeded     bool
}

// PaymentGateway is the port to the (simulated) payment provider.
type PaymentGateway interface {
	Charge(ctx context.Context, amount decimal.Decimal, method string) (*ChargeResult, error)
	Refund(ctx context.Context, transactionID string) error
}

// PaymentRepository defines the interface for payment storage
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*Payment, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Payment, error)
	UpdateStatus(ctx context.Context, id string, status PaymentStatus, transactionID string) error
	// HasSuccessful reports whether the event already has a successful payment.
	HasSuccessful(ctx context.Context, eventID string) (bool, error)
}

// PaymentService defines charging, lookups, and webhook settlement.
type PaymentService interface {
	Pay(ctx context.Context, eventID, userID, method string) (*Payment, error)
	GetByID(ctx context.Context, paymentID, callerID, callerRole string) (*Payment, error)
	ListByEvent(ctx context.Context, eventID, callerID, callerRole string) ([]*Payment, error)
	// HandleWebhook settles the payment identified by transactionID.
	// Repeated deliveries of a final status are a no-op.
	HandleWebhook(ctx context.Context, transactionID string, status PaymentStatus) (*Payment, error)
}
