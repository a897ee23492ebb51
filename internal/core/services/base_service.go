package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/SscSPs/school_fees_ledger/internal/core/ports/gateways"
	"github.com/SscSPs/school_fees_ledger/internal/middleware"
	"github.com/SscSPs/school_fees_ledger/internal/platform/clock"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Clock   clock.Clock
	Tracker gateways.EventTracker
}

// ServiceOption is a functional option for the dependencies every service shares
type ServiceOption func(*BaseService)

// WithClock overrides the time source
func WithClock(c clock.Clock) ServiceOption {
	return func(s *BaseService) {
		s.Clock = c
	}
}

// WithEventTracker enables analytics events
func WithEventTracker(t gateways.EventTracker) ServiceOption {
	return func(s *BaseService) {
		s.Tracker = t
	}
}

func newBaseService(options ...ServiceOption) BaseService {
	base := BaseService{Clock: clock.New()}
	for _, option := range options {
		option(&base)
	}
	return base
}

// Now reads the service clock
func (s *BaseService) Now() time.Time {
	return s.Clock.Now()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Track sends an analytics event when a tracker is configured
func (s *BaseService) Track(actorID, event string, props map[string]any) {
	if s.Tracker == nil {
		return
	}
	if actorID == "" {
		actorID = domain.SystemActor
	}
	s.Tracker.Track(actorID, event, props)
}
