package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridMailer delivers mail through the SendGrid v3 API.
type SendgridMailer struct {
	key  string
	from *sgmail.Email
}

var _ Mailer = (*SendgridMailer)(nil)

func NewSendgridMailer(apiKey, fromName, fromAddress string) *SendgridMailer {
	return &SendgridMailer{
		key:  apiKey,
		from: sgmail.NewEmail(fromName, fromAddress),
	}
}

func (m *SendgridMailer) SendParentCodes(ctx context.Context, to string, items []CodeItem) error {
	return m.send(ctx, to, codesSubject, renderCodesText(items))
}

func (m *SendgridMailer) SendWelcome(ctx context.Context, to, name, tempPassword string) error {
	return m.send(ctx, to, welcomeSubject(name), renderWelcomeText(name, tempPassword))
}

func (m *SendgridMailer) send(ctx context.Context, to, subject, body string) error {
	p := sgmail.NewPersonalization()
	p.Subject = subject
	p.AddTos(sgmail.NewEmail("", to))

	msg := sgmail.NewV3Mail()
	msg.SetFrom(m.from)
	msg.AddPersonalizations(p)
	msg.AddContent(sgmail.NewContent("text/plain", body))

	req := sendgrid.GetRequest(m.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(msg)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid responded %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
