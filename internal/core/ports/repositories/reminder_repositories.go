package repositories

import (
	"context"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
)

// ReminderSettingsRepository persists the single automation settings row and run history.
type ReminderSettingsRepository interface {
	// GetReminderSettings returns apperrors.ErrNotFound until settings are first saved.
	GetReminderSettings(ctx context.Context) (*domain.ReminderAutomationSettings, error)

	// SaveReminderSettings upserts the single settings row.
	SaveReminderSettings(ctx context.Context, settings domain.ReminderAutomationSettings) error

	// SaveReminderRun appends a run to the history.
	SaveReminderRun(ctx context.Context, run domain.ReminderRun) error

	// ListReminderRuns returns the most recent runs first.
	ListReminderRuns(ctx context.Context, limit int) ([]domain.ReminderRun, error)
}
