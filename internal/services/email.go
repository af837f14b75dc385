package services

import (
	"context"
	"fmt"
	"log"

	"venuebooking/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService wires the template renderer to the outgoing Mailer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

func (s *emailService) SendBookingConfirmed(ctx context.Context, data *domain.BookingConfirmedEmailData) error {
	if data == nil {
		return fmt.Errorf("booking confirmed data is nil")
	}
	return s.deliver("booking_confirmed", data.Email, data)
}

// deliver renders the named template and hands the result to the mailer.
func (s *emailService) deliver(template, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", template, err)
	}
	if err := s.mailer.Send(to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send %s email: %w", template, err)
	}
	log.Printf("[EMAIL] %s sent to %s", template, to)
	return nil
}
