package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/apperrors"
	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/SscSPs/school_fees_ledger/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/school_fees_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/school_fees_ledger/internal/core/ports/services"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	reminderLockKey        = "fees:reminders:tick"
	defaultReminderLockTTL = 10 * time.Minute
	persistTimeout         = 30 * time.Second
)

type reminderService struct {
	BaseService
	settingsRepo portsrepo.ReminderSettingsRepository
	learners     portsrepo.LearnerDirectory
	balances     portssvc.BalanceSvcFacade
	gateway      gateways.MessagingGateway
	locker       gateways.Locker
	lockTTL      time.Duration
	composer     ReminderComposer
	validate     *validator.Validate
	running      atomic.Bool
}

// ReminderOption configures the reminder scheduler.
type ReminderOption func(*reminderService)

// WithLocker shares the tick guard with other replicas.
func WithLocker(locker gateways.Locker, ttl time.Duration) ReminderOption {
	return func(s *reminderService) {
		s.locker = locker
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithComposer sets how reminder messages are rendered.
func WithComposer(c ReminderComposer) ReminderOption {
	return func(s *reminderService) {
		s.composer = c
	}
}

// WithServiceOptions applies the shared service options.
func WithServiceOptions(options ...ServiceOption) ReminderOption {
	return func(s *reminderService) {
		for _, option := range options {
			option(&s.BaseService)
		}
	}
}

// NewReminderService creates the reminder scheduler.
func NewReminderService(
	settingsRepo portsrepo.ReminderSettingsRepository,
	learners portsrepo.LearnerDirectory,
	balances portssvc.BalanceSvcFacade,
	gateway gateways.MessagingGateway,
	options ...ReminderOption,
) portssvc.ReminderSvcFacade {
	s := &reminderService{
		BaseService:  newBaseService(),
		settingsRepo: settingsRepo,
		learners:     learners,
		balances:     balances,
		gateway:      gateway,
		lockTTL:      defaultReminderLockTTL,
		composer:     DefaultReminderComposer(),
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.ReminderSvcFacade = (*reminderService)(nil)

func (s *reminderService) loadSettings(ctx context.Context) (*domain.ReminderAutomationSettings, error) {
	settings, err := s.settingsRepo.GetReminderSettings(ctx)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// GetSettings returns the stored settings, or the defaults when nothing has been saved yet.
func (s *reminderService) GetSettings(ctx context.Context) (*domain.ReminderAutomationSettings, domain.ReminderState, error) {
	settings, err := s.loadSettings(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", fmt.Errorf("failed to load reminder settings: %w", err)
		}
		defaults := domain.DefaultReminderSettings()
		settings = &defaults
	}
	return settings, settings.State(s.running.Load()), nil
}

// SaveSettings validates the form, re-arms the schedule and persists it.
func (s *reminderService) SaveSettings(ctx context.Context, form domain.ReminderSettingsForm, actorID string) (*domain.ReminderAutomationSettings, error) {
	logger := s.GetLogger(ctx)

	if err := s.validate.StructCtx(ctx, form); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	settings, err := s.loadSettings(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to load reminder settings: %w", err)
		}
		defaults := domain.DefaultReminderSettings()
		settings = &defaults
	}

	if err := settings.ApplyForm(form, actorID, s.Now()); err != nil {
		return nil, err
	}
	if err := s.settingsRepo.SaveReminderSettings(ctx, *settings); err != nil {
		s.LogError(ctx, err, "Failed to save reminder settings")
		return nil, fmt.Errorf("failed to save reminder settings: %w", err)
	}

	attrs := []any{slog.Bool("enabled", settings.IsEnabled), slog.Int("interval_days", settings.IntervalDays)}
	if settings.NextRunAt != nil {
		attrs = append(attrs, slog.Time("next_run_at", *settings.NextRunAt))
	}
	logger.Info("Reminder settings saved", attrs...)
	s.Track(actorID, "reminder_settings_saved", map[string]any{
		"enabled":       settings.IsEnabled,
		"interval_days": settings.IntervalDays,
		"scope":         string(settings.Scope),
	})
	return settings, nil
}

// Tick runs one reminder pass. An unforced tick only runs when enabled and
// due; a forced tick skips the due check but never runs while disabled.
// Per-learner dispatch failures are collected and the schedule still advances.
func (s *reminderService) Tick(ctx context.Context, force bool) (*domain.TickResult, error) {
	logger := s.GetLogger(ctx).With(slog.Bool("forced", force))
	startedAt := s.Now()

	settings, err := s.loadSettings(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.TickResult{Errors: []apperrors.BatchError{}, Reason: domain.ReasonNotConfigured}, nil
		}
		return nil, fmt.Errorf("failed to load reminder settings: %w", err)
	}
	if !force && !settings.IsDue(startedAt) {
		return &domain.TickResult{Errors: []apperrors.BatchError{}, Reason: domain.ReasonNotDue}, nil
	}
	if !settings.IsEnabled {
		return &domain.TickResult{Errors: []apperrors.BatchError{}, Reason: domain.ReasonDisabled}, nil
	}

	if !s.running.CompareAndSwap(false, true) {
		logger.Info("Reminder tick skipped, another run in progress")
		return &domain.TickResult{Errors: []apperrors.BatchError{}, Reason: domain.ReasonAlreadyRunning}, nil
	}
	defer s.running.Store(false)

	if s.locker != nil {
		release, ok, err := s.locker.TryLock(ctx, reminderLockKey, s.lockTTL)
		if err != nil {
			s.LogError(ctx, err, "Failed to acquire reminder lock")
			return nil, fmt.Errorf("failed to acquire reminder lock: %w", err)
		}
		if !ok {
			logger.Info("Reminder tick skipped, lock held by another replica")
			return &domain.TickResult{Errors: []apperrors.BatchError{}, Reason: domain.ReasonAlreadyRunning}, nil
		}
		defer release()
	}

	result, err := s.dispatch(ctx, *settings)
	if err != nil {
		return nil, err
	}

	// The batch may have run out of time; the schedule is advanced regardless.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	// Settings may have been saved while the batch ran; advance the fresh row.
	finishedAt := s.Now()
	latest, err := s.loadSettings(persistCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload reminder settings: %w", err)
	}
	latest.MarkRun(finishedAt)
	if err := s.settingsRepo.SaveReminderSettings(persistCtx, *latest); err != nil {
		s.LogError(ctx, err, "Failed to advance reminder schedule")
		return nil, fmt.Errorf("failed to advance reminder schedule: %w", err)
	}

	run := domain.ReminderRun{
		RunID:      uuid.NewString(),
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Forced:     force,
		Sent:       result.Sent,
		Skipped:    result.Skipped,
		Failed:     len(result.Errors),
		Errors:     result.Errors,
	}
	if err := s.settingsRepo.SaveReminderRun(persistCtx, run); err != nil {
		s.LogError(ctx, err, "Failed to record reminder run", slog.String("run_id", run.RunID))
	}

	logger.Info("Reminder tick completed",
		slog.Int("sent", result.Sent),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", len(result.Errors)),
		slog.Any("next_run_at", latest.NextRunAt))
	s.Track(domain.SystemActor, "reminder_tick", map[string]any{
		"forced":  force,
		"sent":    result.Sent,
		"skipped": result.Skipped,
		"failed":  len(result.Errors),
	})
	return result, nil
}

// dispatch sends one reminder per learner with a positive relevant balance.
// Only failures that make the whole target set unknowable are returned.
func (s *reminderService) dispatch(ctx context.Context, settings domain.ReminderAutomationSettings) (*domain.TickResult, error) {
	logger := s.GetLogger(ctx)
	result := &domain.TickResult{Errors: []apperrors.BatchError{}}

	period, err := s.balances.CurrentPeriod(ctx)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		if !settings.IncludePreviousBalance {
			logger.Warn("No current academic period, current-term reminders not sent")
			result.Reason = domain.ReasonNoCurrentPeriod
			return result, nil
		}
		// Without a current term every outstanding amount counts as previous balance.
		logger.Warn("No current academic period, reminding on previous balance only")
		period = &domain.Period{}
	case err != nil:
		s.LogError(ctx, err, "Reminder tick aborted, current period unresolved")
		return nil, err
	}

	var gradeID *string
	if settings.Scope == domain.ScopeGrade {
		gradeID = settings.GradeID
	}
	learners, err := s.learners.ListActiveLearners(ctx, gradeID)
	if err != nil {
		s.LogError(ctx, err, "Reminder tick aborted, learners unavailable")
		return nil, fmt.Errorf("failed to list reminder targets: %w", err)
	}

	ids := make([]string, 0, len(learners))
	for _, l := range learners {
		ids = append(ids, l.LearnerID)
	}
	balances, err := s.balances.LearnerBalances(ctx, ids, *period)
	if err != nil {
		logger.Warn("Batch balance read failed, folding learners individually", slog.String("error", err.Error()))
		balances = nil
	}

	for _, learner := range learners {
		if ctx.Err() != nil {
			logger.Warn("Reminder tick interrupted", slog.String("error", ctx.Err().Error()))
			break
		}

		balance, ok := balances[learner.LearnerID]
		if !ok {
			b, err := s.balances.LearnerBalance(ctx, learner.LearnerID, *period)
			if err != nil {
				result.Errors = append(result.Errors, apperrors.BatchError{
					LearnerID: learner.LearnerID,
					Reason:    fmt.Sprintf("balance unavailable: %v", err),
				})
				continue
			}
			balance = *b
		}

		relevant := balance.RelevantBalance(settings.IncludeCurrentTerm, settings.IncludePreviousBalance)
		if !relevant.IsPositive() {
			result.Skipped++
			continue
		}

		msg := s.composer.Compose(learner, balance, relevant, settings.IncludeCurrentTerm, settings.IncludePreviousBalance)
		ack, err := s.gateway.SendReminder(ctx, learner.LearnerID, msg)
		if err != nil {
			logger.Warn("Reminder dispatch failed",
				slog.String("learner_id", learner.LearnerID),
				slog.String("error", err.Error()))
			result.Errors = append(result.Errors, apperrors.BatchError{
				LearnerID: learner.LearnerID,
				Reason:    err.Error(),
			})
			continue
		}
		logger.Debug("Reminder dispatched",
			slog.String("learner_id", learner.LearnerID),
			slog.String("channel", ack.Channel))
		result.Sent++
	}
	return result, nil
}

func (s *reminderService) ListRuns(ctx context.Context, limit int) ([]domain.ReminderRun, error) {
	if limit <= 0 {
		limit = 20
	}
	runs, err := s.settingsRepo.ListReminderRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminder runs: %w", err)
	}
	return runs, nil
}
