package messaging

import (
	"context"
	"log/slog"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/SscSPs/school_fees_ledger/internal/middleware"
	"github.com/google/uuid"
)

// LogChannel writes reminders to the structured log instead of sending them.
// Used when no provider is configured.
type LogChannel struct{}

var _ Channel = LogChannel{}

func (LogChannel) Name() string { return "log" }

func (LogChannel) Accepts(msg domain.ReminderMessage) bool {
	return msg.Email != "" || msg.Phone != ""
}

func (LogChannel) Send(ctx context.Context, msg domain.ReminderMessage) (string, error) {
	id := uuid.NewString()
	middleware.GetLoggerFromCtx(ctx).Info("Reminder (log channel)",
		slog.String("message_id", id),
		slog.String("learner_id", msg.LearnerID),
		slog.String("email", msg.Email),
		slog.String("phone", msg.Phone),
		slog.String("subject", msg.Subject),
		slog.String("balance_due", msg.BalanceDue.StringFixed(2)),
	)
	return id, nil
}
