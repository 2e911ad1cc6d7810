package utils

import (
	"fmt"

	"github.com/gravitational/trace"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService sends account emails through SendGrid. With no API key it is
// a no-op, so local development works without credentials.
type EmailService struct {
	client *sendgrid.Client
	from   string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService(apiKey, from string) *EmailService {
	if apiKey == "" {
		return &EmailService{}
	}
	return &EmailService{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if es.client == nil {
		return nil
	}
	message := mail.NewSingleEmail(
		mail.NewEmail("Campgrounds", es.from),
		subject,
		mail.NewEmail("", toEmail),
		htmlContent,
		htmlContent,
	)
	resp, err := es.client.Send(message)
	if err != nil {
		return trace.Wrap(err)
	}
	if resp.StatusCode >= 400 {
		return trace.BadParameter("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// SendWelcomeEmail greets a newly registered user.
func (es *EmailService) SendWelcomeEmail(toEmail, username string) error {
	subject := "Welcome to Campgrounds"
	htmlContent := fmt.Sprintf(
		"<strong>Hi %s,</strong><br><br>Your account is ready. Browse the listings and share your favorite spots!",
		username,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}
