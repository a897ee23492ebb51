// Package gateways declares the outbound ports the ledger drives: messaging,
// distributed locking and analytics.
package gateways

import (
	"context"
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
)

// MessagingGateway delivers reminders to a learner's guardian.
type MessagingGateway interface {
	// SendReminder returns an error wrapping apperrors.ErrDispatch when the message was not accepted.
	SendReminder(ctx context.Context, learnerID string, msg domain.ReminderMessage) (domain.DispatchAck, error)
}

// Locker provides a best-effort mutual exclusion shared between replicas.
type Locker interface {
	// TryLock acquires key for at most ttl. ok is false when another holder has it.
	// release must be called once the work is done.
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// EventTracker records product analytics events. Implementations must not block.
type EventTracker interface {
	Track(distinctID string, event string, properties map[string]any)
}
