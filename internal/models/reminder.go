package models

import "time"

// ReminderSettings is the single row of reminder_automation_settings.
type ReminderSettings struct {
	IsEnabled              bool       `db:"is_enabled"`
	IntervalDays           int        `db:"interval_days"`
	Scope                  string     `db:"scope"`
	GradeID                *string    `db:"grade_id"`
	IncludeCurrentTerm     bool       `db:"include_current_term"`
	IncludePreviousBalance bool       `db:"include_previous_balance"`
	LastRunAt              *time.Time `db:"last_run_at"`
	NextRunAt              *time.Time `db:"next_run_at"`
	AuditFields
}

// ReminderRunError is one element of reminder_runs.errors.
type ReminderRunError struct {
	LearnerID string `json:"learnerId"`
	Reason    string `json:"reason"`
}

// ReminderRun is a row of the reminder_runs table.
type ReminderRun struct {
	RunID      string             `db:"run_id"`
	StartedAt  time.Time          `db:"started_at"`
	FinishedAt time.Time          `db:"finished_at"`
	Forced     bool               `db:"forced"`
	Sent       int                `db:"sent"`
	Skipped    int                `db:"skipped"`
	Failed     int                `db:"failed"`
	Errors     []ReminderRunError `db:"errors"`
}
