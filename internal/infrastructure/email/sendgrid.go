// Package email implements the outbound transactional mailer on SendGrid.
package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/newsnotify/notification-system/internal/api/metrics"
)

// SendGridMailer sends plain-text email through the SendGrid v3 API.
type SendGridMailer struct {
	client *sendgrid.Client
	from   string
}

func NewSendGridMailer(apiKey, from string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
	}
}

// Send delivers one message to every address in to. A non-2xx API response
// counts as a delivery failure.
func (m *SendGridMailer) Send(ctx context.Context, to []string, subject, body string) error {
	msg := mail.NewV3Mail()
	msg.SetFrom(mail.NewEmail("", m.from))
	msg.Subject = subject

	p := mail.NewPersonalization()
	for _, addr := range to {
		p.AddTos(mail.NewEmail("", addr))
	}
	msg.AddPersonalizations(p)
	msg.AddContent(mail.NewContent("text/plain", body))

	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		metrics.EmailsSentTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		metrics.EmailsSentTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("sendgrid send: status %d", resp.StatusCode)
	}

	metrics.EmailsSentTotal.WithLabelValues("ok").Inc()
	return nil
}
