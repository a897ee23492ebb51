package messaging

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// EmailChannel sends reminders through the SendGrid v3 mail API.
type EmailChannel struct {
	key  string
	from *sgmail.Email
}

var _ Channel = (*EmailChannel)(nil)

func NewEmailChannel(key, fromName, fromAddress string) *EmailChannel {
	return &EmailChannel{
		key:  key,
		from: sgmail.NewEmail(fromName, fromAddress),
	}
}

func (ch *EmailChannel) Name() string { return "email" }

func (ch *EmailChannel) Accepts(msg domain.ReminderMessage) bool {
	return msg.Email != ""
}

func (ch *EmailChannel) prepare(msg domain.ReminderMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.RecipientName, msg.Email))

	m := sgmail.NewV3Mail()
	m.SetFrom(ch.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Body))
	return m
}

func (ch *EmailChannel) Send(ctx context.Context, msg domain.ReminderMessage) (string, error) {
	req := sendgrid.GetRequest(ch.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(ch.prepare(msg))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return "", err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("sendgrid responded %d: %s", res.StatusCode, res.Body)
	}
	return firstHeader(res.Headers, "X-Message-Id"), nil
}

func firstHeader(headers map[string][]string, key string) string {
	if values := headers[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}
