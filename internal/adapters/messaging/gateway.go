// Package messaging delivers fee reminders to guardians over email and SMS.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/school_fees_ledger/internal/apperrors"
	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/SscSPs/school_fees_ledger/internal/core/ports/gateways"
	"github.com/SscSPs/school_fees_ledger/internal/middleware"
)

// Channel is one delivery route for a reminder.
type Channel interface {
	Name() string
	// Accepts reports whether msg carries a contact this channel can deliver to.
	Accepts(msg domain.ReminderMessage) bool
	// Send returns the provider's message id.
	Send(ctx context.Context, msg domain.ReminderMessage) (string, error)
}

// Gateway tries its channels in order and stops at the first that accepts
// the message. A failed channel falls through to the next one.
type Gateway struct {
	channels []Channel
}

var _ gateways.MessagingGateway = (*Gateway)(nil)

func NewGateway(channels ...Channel) *Gateway {
	return &Gateway{channels: channels}
}

func (g *Gateway) SendReminder(ctx context.Context, learnerID string, msg domain.ReminderMessage) (domain.DispatchAck, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var errs []error
	for _, ch := range g.channels {
		if !ch.Accepts(msg) {
			continue
		}
		providerID, err := ch.Send(ctx, msg)
		if err != nil {
			logger.Warn("Reminder channel failed", slog.String("channel", ch.Name()), slog.String("learner_id", learnerID), slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
			continue
		}
		logger.Debug("Reminder dispatched", slog.String("channel", ch.Name()), slog.String("learner_id", learnerID))
		return domain.DispatchAck{Channel: ch.Name(), ProviderID: providerID}, nil
	}

	if len(errs) == 0 {
		return domain.DispatchAck{}, fmt.Errorf("%w: no contact channel for learner %s", apperrors.ErrDispatch, learnerID)
	}
	return domain.DispatchAck{}, fmt.Errorf("%w: %w", apperrors.ErrDispatch, errors.Join(errs...))
}
