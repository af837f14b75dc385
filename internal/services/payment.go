package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"venuebooking/internal/domain"
	"venuebooking/internal/metrics"
)

type paymentService struct {
	paymentRepo    domain.PaymentRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	venueRepo      domain.VenueRepository
	gateway        domain.PaymentGateway
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewPaymentService(paymentRepo domain.PaymentRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	venueRepo domain.VenueRepository,
	gateway domain.PaymentGateway,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.PaymentService {
	return &paymentService{
		paymentRepo:    paymentRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		venueRepo:      venueRepo,
		gateway:        gateway,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// Pay charges the full event total through the gateway. A declined charge is
// not an error; the returned payment carries the failed status and the caller
// may retry. A successful charge confirms the event and sends the
// confirmation email.
func (s *paymentService) Pay(ctx context.Context, eventID, userID, method string) (*domain.Payment, error) {
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

	paid, err := s.paymentRepo.HasSuccessful(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("check existing payments: %w", err)
	}
	if paid {
		return nil, domain.ErrAlreadyPaid
	}
	if event.Status != domain.EventPending {
		return nil, fmt.Errorf("%w: event is %s", domain.ErrEventNotPayable, event.Status)
	}

	if method == "" {
		method = "card"
	}

	now := time.Now()
	payment := &domain.Payment{
		EventID:   eventID,
		UserID:    userID,
		Amount:    event.TotalCost,
		Method:    method,
		Status:    domain.PaymentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	result, err := s.gateway.Charge(ctx, event.TotalCost, method)
	if err != nil {
		if uerr := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentFailed, ""); uerr != nil {
			s.logger.ErrorContext(ctx, "failed to mark payment failed", "payment_id", payment.ID, "err", uerr)
		}
		metrics.RecordPayment(string(domain.PaymentFailed))
		return nil, fmt.Errorf("charge: %w", err)
	}

	if !result.Succeeded {
		if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentFailed, result.TransactionID); err != nil {
			return nil, fmt.Errorf("mark payment failed: %w", err)
		}
		metrics.RecordPayment(string(domain.PaymentFailed))
		payment.Status = domain.PaymentFailed
		payment.TransactionID = result.TransactionID
		payment.UpdatedAt = time.Now()
		return payment, nil
	}

	if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentSuccess, result.TransactionID); err != nil {
		return nil, fmt.Errorf("mark payment succeeded: %w", err)
	}
	metrics.RecordPayment(string(domain.PaymentSuccess))
	payment.Status = domain.PaymentSuccess
	payment.TransactionID = result.TransactionID
	payment.UpdatedAt = time.Now()

	if err := s.eventRepo.UpdateStatus(ctx, eventID, domain.EventConfirmed); err != nil {
		return nil, fmt.Errorf("confirm event: %w", err)
	}
	event.Status = domain.EventConfirmed

	s.sendConfirmationEmail(ctx, event)
	return payment, nil
}

func (s *paymentService) GetByID(ctx context.Context, paymentID, callerID, callerRole string) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if callerRole != domain.RoleOrganizer && payment.UserID != callerID {
		return nil, domain.ErrForbidden
	}
	return payment, nil
}

func (s *paymentService) ListByEvent(ctx context.Context, eventID, callerID, callerRole string) ([]*domain.Payment, error) {
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

	payments, err := s.paymentRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	if payments == nil {
		payments = []*domain.Payment{}
	}
	return payments, nil
}

// HandleWebhook settles a payment by gateway transaction id. Replays of the
// same status are no-ops; the only transitions accepted are pending to
// success or failed, and success to refunded.
func (s *paymentService) HandleWebhook(ctx context.Context, transactionID string, status domain.PaymentStatus) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	payment, err := s.paymentRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: transaction %s", domain.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("get payment by transaction: %w", err)
	}

	if payment.Status == status {
		return payment, nil
	}
	if !webhookTransitionAllowed(payment.Status, status) {
		return nil, fmt.Errorf("%w: payment is %s, cannot move to %s", domain.ErrConflict, payment.Status, status)
	}

	if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, status, payment.TransactionID); err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	metrics.RecordPayment(string(status))
	payment.Status = status
	payment.UpdatedAt = time.Now()

	if status == domain.PaymentSuccess {
		event, err := s.eventRepo.GetByID(ctx, payment.EventID)
		if err != nil {
			return nil, fmt.Errorf("get event: %w", err)
		}
		if event.Status == domain.EventPending {
			if err := s.eventRepo.UpdateStatus(ctx, event.ID, domain.EventConfirmed); err != nil {
				return nil, fmt.Errorf("confirm event: %w", err)
			}
			event.Status = domain.EventConfirmed
			s.sendConfirmationEmail(ctx, event)
		}
	}
	return payment, nil
}

// sendConfirmationEmail is best effort. The payment has already settled, so
// a delivery failure is logged and swallowed.
func (s *paymentService) sendConfirmationEmail(ctx context.Context, event *domain.Event) {
	user, err := s.userRepo.GetByID(ctx, event.UserID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load user for confirmation email", "event_id", event.ID, "err", err)
		return
	}
	venue, err := s.venueRepo.GetByID(ctx, event.VenueID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load venue for confirmation email", "event_id", event.ID, "err", err)
		return
	}
	data := &domain.BookingConfirmedEmailData{
		Email:     user.Email,
		Name:      user.Name,
		EventName: event.Name,
		VenueName: venue.Name,
		StartTime: event.StartTime.Format(time.RFC1123),
		EndTime:   event.EndTime.Format(time.RFC1123),
		TotalCost: event.TotalCost.StringFixed(2),
	}
	if err := s.emailService.SendBookingConfirmed(ctx, data); err != nil {
		s.logger.ErrorContext(ctx, "failed to send confirmation email", "event_id", event.ID, "err", err)
	}
}

func webhookTransitionAllowed(from, to domain.PaymentStatus) bool {
	switch from {
	case domain.PaymentPending:
		return to == domain.PaymentSuccess || to == domain.PaymentFailed
	case domain.PaymentSuccess:
		return to == domain.PaymentRefunded
	default:
		return false
	}
}
