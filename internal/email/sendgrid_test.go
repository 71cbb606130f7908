package email

import (
	"errors"
	"testing"

	"github.com/dangerclosesec/greenhug/internal/config"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSendgrid struct {
	sent     []*mail.SGMailV3
	response *rest.Response
	err      error
}

func (f *fakeSendgrid) Send(message *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, message)
	return f.response, f.err
}

func newSendgridService(t *testing.T, client *fakeSendgrid) *Service {
	t.Helper()

	cfg := &config.Config{}
	cfg.Sendgrid.From = "noreply@greenhug.test"

	s, err := NewEmailService(cfg, ProviderSendgrid)
	require.NoError(t, err)
	s.sendgridClient = client
	return s
}

func reviewEmail() EmailData {
	return EmailData{
		To:           "review@greenhug.test",
		FromName:     "Greenhug",
		Subject:      "Métricas sin clasificar",
		TemplateName: "unclassified_metrics",
		TemplateData: reviewData{CompanyName: "Acme", ProjectName: "Reforestación"},
	}
}

func TestSendgridMessage(t *testing.T) {
	data := reviewEmail()
	data.From = "noreply@greenhug.test"

	m := sendgridMessage(data, "<p>hola</p>", "hola")

	assert.Equal(t, "noreply@greenhug.test", m.From.Address)
	assert.Equal(t, "Greenhug", m.From.Name)
	require.Len(t, m.Personalizations, 1)
	require.Len(t, m.Personalizations[0].To, 1)
	assert.Equal(t, "review@greenhug.test", m.Personalizations[0].To[0].Address)
	require.Len(t, m.Content, 2)
	assert.Equal(t, "text/plain", m.Content[0].Type)
	assert.Equal(t, "text/html", m.Content[1].Type)
	assert.Equal(t, []string{"greenhug", "unclassified_metrics"}, m.Categories)
}

func TestSendWithSendgrid(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		client := &fakeSendgrid{response: &rest.Response{StatusCode: 202}}
		s := newSendgridService(t, client)

		require.NoError(t, s.SendEmail(reviewEmail()))

		require.Len(t, client.sent, 1)
		assert.Equal(t, "noreply@greenhug.test", client.sent[0].From.Address)
		assert.Contains(t, client.sent[0].Content[0].Value, "Reforestación")
	})

	t.Run("rejected", func(t *testing.T) {
		client := &fakeSendgrid{response: &rest.Response{StatusCode: 401, Body: `{"errors":[{"message":"bad key"}]}`}}
		s := newSendgridService(t, client)

		err := s.SendEmail(reviewEmail())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 401")
	})

	t.Run("transport error", func(t *testing.T) {
		client := &fakeSendgrid{err: errors.New("dial tcp: timeout")}
		s := newSendgridService(t, client)

		assert.Error(t, s.SendEmail(reviewEmail()))
	})

	t.Run("missing sender", func(t *testing.T) {
		client := &fakeSendgrid{response: &rest.Response{StatusCode: 202}}
		s := newSendgridService(t, client)
		s.config.Sendgrid.From = ""

		assert.Error(t, s.SendEmail(reviewEmail()))
		assert.Empty(t, client.sent)
	})
}
