package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/school_fees_ledger/internal/apperrors"
	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type MockChannel struct {
	mock.Mock
	name  string
	email bool
}

func (m *MockChannel) Name() string { return m.name }

func (m *MockChannel) Accepts(msg domain.ReminderMessage) bool {
	if m.email {
		return msg.Email != ""
	}
	return msg.Phone != ""
}

func (m *MockChannel) Send(ctx context.Context, msg domain.ReminderMessage) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*twilioApi.ApiV2010Message), args.Error(1)
}

func TestGatewayFallsThroughFailedChannel(t *testing.T) {
	ctx := context.Background()
	msg := domain.ReminderMessage{LearnerID: "l-1", Email: "p@example.com", Phone: "+254700000000"}
	email := &MockChannel{name: "email", email: true}
	sms := &MockChannel{name: "sms"}
	email.On("Send", ctx, msg).Return("", errors.New("sendgrid responded 503")).Once()
	sms.On("Send", ctx, msg).Return("SM123", nil).Once()

	ack, err := NewGateway(email, sms).SendReminder(ctx, "l-1", msg)

	require.NoError(t, err)
	assert.Equal(t, domain.DispatchAck{Channel: "sms", ProviderID: "SM123"}, ack)
	email.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestGatewayNoContact(t *testing.T) {
	email := &MockChannel{name: "email", email: true}

	_, err := NewGateway(email).SendReminder(context.Background(), "l-1", domain.ReminderMessage{LearnerID: "l-1"})

	assert.ErrorIs(t, err, apperrors.ErrDispatch)
	email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestGatewayAllChannelsFail(t *testing.T) {
	ctx := context.Background()
	msg := domain.ReminderMessage{LearnerID: "l-1", Phone: "+254700000000"}
	sms := &MockChannel{name: "sms"}
	sms.On("Send", ctx, msg).Return("", errors.New("twilio: 21211 invalid number")).Once()

	_, err := NewGateway(sms).SendReminder(ctx, "l-1", msg)

	require.ErrorIs(t, err, apperrors.ErrDispatch)
	assert.Contains(t, err.Error(), "21211")
}

func TestSMSChannelSend(t *testing.T) {
	sender := new(MockSMSSender)
	sid := "SM42"
	sender.On("CreateMessage", mock.MatchedBy(func(p *twilioApi.CreateMessageParams) bool {
		return *p.To == "+254711111111" && *p.From == "+15005550006" && *p.Body == "Balance due"
	})).Return(&twilioApi.ApiV2010Message{Sid: &sid}, nil).Once()
	ch := &SMSChannel{api: sender, from: "+15005550006"}

	id, err := ch.Send(context.Background(), domain.ReminderMessage{Phone: "+254711111111", Body: "Balance due"})

	require.NoError(t, err)
	assert.Equal(t, "SM42", id)
	sender.AssertExpectations(t)
}

func TestEmailChannelPrepare(t *testing.T) {
	ch := NewEmailChannel("key", "Hillside Academy", "bursar@hillside.example")

	m := ch.prepare(domain.ReminderMessage{RecipientName: "Amina", Email: "amina@example.com", Subject: "Fees", Body: "Balance KES 1,000.00"})

	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "Fees", m.Personalizations[0].Subject)
	assert.Equal(t, "amina@example.com", m.Personalizations[0].To[0].Address)
	assert.Equal(t, "bursar@hillside.example", m.From.Address)
	require.Len(t, m.Content, 1)
	assert.Equal(t, "Balance KES 1,000.00", m.Content[0].Value)
}
