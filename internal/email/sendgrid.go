package email

import (
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// category tags every message so review notices can be filtered in the
// SendGrid activity feed.
const category = "greenhug"

// sendgridSender is the part of *sendgrid.Client the service uses.
type sendgridSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// sendgridMessage builds a single-recipient message with the plaintext part
// first, as SendGrid requires, tagged with the template name.
func sendgridMessage(data EmailData, htmlContent, textContent string) *mail.SGMailV3 {
	from := mail.NewEmail(data.FromName, data.From)
	to := mail.NewEmail("", data.To)

	message := mail.NewSingleEmail(from, data.Subject, to, textContent, htmlContent)
	message.AddCategories(category)
	if data.TemplateName != "" {
		message.AddCategories(data.TemplateName)
	}
	return message
}

func (s *Service) sendWithSendgrid(data EmailData, htmlContent, textContent string) error {
	if data.From == "" {
		return fmt.Errorf("missing sender email address (From)")
	}

	response, err := s.sendgridClient.Send(sendgridMessage(data, htmlContent, textContent))
	if err != nil {
		return fmt.Errorf("sending %s via Sendgrid: %w", data.TemplateName, err)
	}

	// Sendgrid answers 202 Accepted; anything outside 2xx is a rejection.
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("sendgrid rejected %s to %s: status %d: %s", data.TemplateName, data.To, response.StatusCode, response.Body)
	}

	return nil
}
