package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"net/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"venuebooking/internal/domain"
)

// SESConfig carries the AWS SES connection settings.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// MailerConfig selects and configures the outgoing mail provider.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// NewMailer builds the Mailer for the configured provider. "ses" sends
// through AWS SES; anything else falls back to a mailer that only logs.
func NewMailer(config MailerConfig) (domain.Mailer, error) {
	switch config.Provider {
	case "ses":
		if config.SES.InsecureSkipVerify {
			log.Printf("[MAILER] WARNING: TLS verification disabled for SES, development only")
		}
		return &sesMailer{
			client: newSESClient(config.SES),
			from:   formatFrom(config.FromName, config.FromAddress),
		}, nil
	case "noop":
		return &noopMailer{}, nil
	default:
		log.Printf("[MAILER] unknown email provider %q, using noop", config.Provider)
		return &noopMailer{}, nil
	}
}

func formatFrom(name, address string) string {
	if name == "" {
		return address
	}
	return (&mail.Address{Name: name, Address: address}).String()
}

func newSESClient(cfg SESConfig) *ses.Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			MinVersion:         tls.VersionTLS12,
		},
	}
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	return ses.NewFromConfig(aws.Config{
		Region:      cfg.Region,
		Credentials: aws.NewCredentialsCache(creds),
		HTTPClient:  &http.Client{Transport: transport},
	})
}

type sesMailer struct {
	client *ses.Client
	from   string
}

func (s *sesMailer) Send(to, subject, html, text string) error {
	body := &types.Body{}
	if html != "" {
		body.Html = content(html)
	}
	if text != "" {
		body.Text = content(text)
	}
	out, err := s.client.SendEmail(context.Background(), &ses.SendEmailInput{
		Source:      aws.String(s.from),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: content(subject),
			Body:    body,
		},
	})
	if err != nil {
		return fmt.Errorf("send email via SES: %w", err)
	}
	log.Printf("[MAILER] sent via SES, message id %s", aws.ToString(out.MessageId))
	return nil
}

func content(s string) *types.Content {
	return &types.Content{Data: aws.String(s), Charset: aws.String("UTF-8")}
}

type noopMailer struct{}

func (n *noopMailer) Send(to, subject, html, text string) error {
	log.Printf("[MAILER] noop: would send %q to %s", subject, to)
	return nil
}
