package mapping

import (
	"github.com/SscSPs/school_fees_ledger/internal/apperrors"
	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/SscSPs/school_fees_ledger/internal/models"
)

// ToModelReminderSettings converts domain reminder settings to the settings row
func ToModelReminderSettings(d domain.ReminderAutomationSettings) models.ReminderSettings {
	return models.ReminderSettings{
		IsEnabled:              d.IsEnabled,
		IntervalDays:           d.IntervalDays,
		Scope:                  string(d.Scope),
		GradeID:                d.GradeID,
		IncludeCurrentTerm:     d.IncludeCurrentTerm,
		IncludePreviousBalance: d.IncludePreviousBalance,
		LastRunAt:              d.LastRunAt,
		NextRunAt:              d.NextRunAt,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReminderSettings converts the settings row to domain reminder settings
func ToDomainReminderSettings(m models.ReminderSettings) domain.ReminderAutomationSettings {
	return domain.ReminderAutomationSettings{
		IsEnabled:              m.IsEnabled,
		IntervalDays:           m.IntervalDays,
		Scope:                  domain.ReminderScope(m.Scope),
		GradeID:                m.GradeID,
		IncludeCurrentTerm:     m.IncludeCurrentTerm,
		IncludePreviousBalance: m.IncludePreviousBalance,
		LastRunAt:              m.LastRunAt,
		NextRunAt:              m.NextRunAt,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelReminderRun converts a domain ReminderRun to a model ReminderRun
func ToModelReminderRun(d domain.ReminderRun) models.ReminderRun {
	errs := make([]models.ReminderRunError, len(d.Errors))
	for i, e := range d.Errors {
		errs[i] = models.ReminderRunError{LearnerID: e.LearnerID, Reason: e.Reason}
	}
	return models.ReminderRun{
		RunID:      d.RunID,
		StartedAt:  d.StartedAt,
		FinishedAt: d.FinishedAt,
		Forced:     d.Forced,
		Sent:       d.Sent,
		Skipped:    d.Skipped,
		Failed:     d.Failed,
		Errors:     errs,
	}
}

// ToDomainReminderRun converts a model ReminderRun to a domain ReminderRun
func ToDomainReminderRun(m models.ReminderRun) domain.ReminderRun {
	var errs []apperrors.BatchError
	for _, e := range m.Errors {
		errs = append(errs, apperrors.BatchError{LearnerID: e.LearnerID, Reason: e.Reason})
	}
	return domain.ReminderRun{
		RunID:      m.RunID,
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
		Forced:     m.Forced,
		Sent:       m.Sent,
		Skipped:    m.Skipped,
		Failed:     m.Failed,
		Errors:     errs,
	}
}
