package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ReminderScope selects which learners a reminder run targets.
type ReminderScope string

const (
	ScopeSchool ReminderScope = "school"
	ScopeGrade  ReminderScope = "grade"
)

// ReminderState is the scheduler lifecycle state.
type ReminderState string

const (
	ReminderDisabled ReminderState = "disabled"
	ReminderArmed    ReminderState = "armed"
	ReminderRunning  ReminderState = "running"
)

// Tick outcome reasons for runs that sent nothing.
const (
	ReasonNotDue          = "not due"
	ReasonDisabled        = "disabled"
	ReasonNotConfigured   = "not configured"
	ReasonAlreadyRunning  = "already running"
	ReasonNoCurrentPeriod = "no current period"
)

// ReminderSettingsForm is the operator-facing input of SaveSettings.
type ReminderSettingsForm struct {
	IsEnabled              bool          `json:"isEnabled"`
	IntervalDays           int           `json:"intervalDays" validate:"min=1,max=365"`
	Scope                  ReminderScope `json:"scope" validate:"required,oneof=school grade"`
	GradeID                *string       `json:"gradeId,omitempty" validate:"required_if=Scope grade"`
	IncludeCurrentTerm     bool          `json:"includeCurrentTerm"`
	IncludePreviousBalance bool          `json:"includePreviousBalance"`
}

// ReminderAutomationSettings is the single persisted reminder configuration.
type ReminderAutomationSettings struct {
	IsEnabled              bool          `json:"isEnabled"`
	IntervalDays           int           `json:"intervalDays"`
	Scope                  ReminderScope `json:"scope"`
	GradeID                *string       `json:"gradeId,omitempty"`
	IncludeCurrentTerm     bool          `json:"includeCurrentTerm"`
	IncludePreviousBalance bool          `json:"includePreviousBalance"`
	LastRunAt              *time.Time    `json:"lastRunAt,omitempty"`
	NextRunAt              *time.Time    `json:"nextRunAt,omitempty"`
	AuditFields
}

// DefaultReminderSettings is what an unconfigured school sees.
func DefaultReminderSettings() ReminderAutomationSettings {
	return ReminderAutomationSettings{
		IsEnabled:              false,
		IntervalDays:           7,
		Scope:                  ScopeSchool,
		IncludeCurrentTerm:     true,
		IncludePreviousBalance: true,
	}
}

// Interval is the configured cadence.
func (s ReminderAutomationSettings) Interval() time.Duration {
	return time.Duration(s.IntervalDays) * 24 * time.Hour
}

// ApplyForm copies the form into the settings and re-arms the schedule:
// enabled settings run next at now+interval, disabled ones have no next run.
// LastRunAt is preserved.
func (s *ReminderAutomationSettings) ApplyForm(form ReminderSettingsForm, actor string, now time.Time) error {
	if form.IsEnabled && !form.IncludeCurrentTerm && !form.IncludePreviousBalance {
		return fmt.Errorf("%w: at least one of current term or previous balance must be included", apperrors.ErrValidation)
	}
	s.IsEnabled = form.IsEnabled
	s.IntervalDays = form.IntervalDays
	s.Scope = form.Scope
	s.GradeID = nil
	if form.Scope == ScopeGrade {
		s.GradeID = form.GradeID
	}
	s.IncludeCurrentTerm = form.IncludeCurrentTerm
	s.IncludePreviousBalance = form.IncludePreviousBalance

	s.NextRunAt = nil
	if s.IsEnabled {
		next := now.Add(s.Interval())
		s.NextRunAt = &next
	}
	if s.CreatedAt.IsZero() {
		s.AuditFields = NewAuditFields(actor, now)
	} else {
		s.Touch(actor, now)
	}
	return nil
}

// IsDue reports whether an unforced tick at now should run.
func (s ReminderAutomationSettings) IsDue(now time.Time) bool {
	if !s.IsEnabled {
		return false
	}
	return s.NextRunAt == nil || !now.Before(*s.NextRunAt)
}

// MarkRun records a completed run at now and schedules the next one.
// A row disabled while the run was in flight keeps no next run.
func (s *ReminderAutomationSettings) MarkRun(now time.Time) {
	last := now
	s.LastRunAt = &last
	if !s.IsEnabled {
		s.NextRunAt = nil
		return
	}
	next := now.Add(s.Interval())
	s.NextRunAt = &next
}

// State maps the settings onto the scheduler lifecycle.
func (s ReminderAutomationSettings) State(running bool) ReminderState {
	switch {
	case running:
		return ReminderRunning
	case s.IsEnabled:
		return ReminderArmed
	default:
		return ReminderDisabled
	}
}

// ReminderMessage is one outbound balance reminder.
type ReminderMessage struct {
	LearnerID     string          `json:"learnerId"`
	RecipientName string          `json:"recipientName"`
	Phone         string          `json:"phone,omitempty"`
	Email         string          `json:"email,omitempty"`
	Subject       string          `json:"subject"`
	Body          string          `json:"body"`
	BalanceDue    decimal.Decimal `json:"balanceDue"`
}

// DispatchAck is the gateway's receipt for an accepted message.
type DispatchAck struct {
	Channel    string `json:"channel"`
	ProviderID string `json:"providerId,omitempty"`
}

// TickResult summarises one scheduler tick.
type TickResult struct {
	Sent    int                    `json:"sent"`
	Skipped int                    `json:"skipped"`
	Errors  []apperrors.BatchError `json:"errors"`
	Reason  string                 `json:"reason,omitempty"`
}

// ReminderRun is the history row of an executed tick.
type ReminderRun struct {
	RunID      string                 `json:"runId"`
	StartedAt  time.Time              `json:"startedAt"`
	FinishedAt time.Time              `json:"finishedAt"`
	Forced     bool                   `json:"forced"`
	Sent       int                    `json:"sent"`
	Skipped    int                    `json:"skipped"`
	Failed     int                    `json:"failed"`
	Errors     []apperrors.BatchError `json:"errors,omitempty"`
}
