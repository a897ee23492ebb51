package messaging

import (
	"context"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// smsSender is the slice of the Twilio REST client the SMS channel uses.
type smsSender interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSChannel sends reminders as text messages through Twilio.
type SMSChannel struct {
	api  smsSender
	from string
}

var _ Channel = (*SMSChannel)(nil)

func NewSMSChannel(accountSID, authToken, from string) *SMSChannel {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &SMSChannel{api: client.Api, from: from}
}

func (ch *SMSChannel) Name() string { return "sms" }

func (ch *SMSChannel) Accepts(msg domain.ReminderMessage) bool {
	return msg.Phone != ""
}

// Send ignores ctx: the Twilio client has no context-aware call.
func (ch *SMSChannel) Send(_ context.Context, msg domain.ReminderMessage) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(msg.Phone)
	params.SetFrom(ch.from)
	params.SetBody(msg.Body)

	resp, err := ch.api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid != nil {
		return *resp.Sid, nil
	}
	return "", nil
}
