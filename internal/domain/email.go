package domain

import "context"

// EmailService sends domain-level notification emails.
type EmailService interface {
	SendBookingConfirmed(ctx context.Context, data *BookingConfirmedEmailData) error
}

// BookingConfirmedEmailData holds the fields rendered into the booking
// confirmation email. Times and cost arrive preformatted.
type BookingConfirmedEmailData struct {
	Email     string
	Name      string
	EventName string
	VenueName string
	StartTime string
	EndTime   string
	TotalCost string
}

// Mailer is the outgoing-mail port. Implementations deliver a single
// message with both HTML and plain-text bodies.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer produces subject and bodies from a named template set.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}
