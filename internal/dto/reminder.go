package dto

import (
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
)

// SaveReminderSettingsRequest is the automation settings form.
type SaveReminderSettingsRequest struct {
	IsEnabled              bool    `json:"isEnabled"`
	IntervalDays           int     `json:"intervalDays" binding:"required,min=1,max=365"`
	Scope                  string  `json:"scope" binding:"required,oneof=school grade"`
	GradeID                *string `json:"gradeId"`
	IncludeCurrentTerm     bool    `json:"includeCurrentTerm"`
	IncludePreviousBalance bool    `json:"includePreviousBalance"`
}

// ToForm converts the request into the domain form.
func (r SaveReminderSettingsRequest) ToForm() domain.ReminderSettingsForm {
	return domain.ReminderSettingsForm{
		IsEnabled:              r.IsEnabled,
		IntervalDays:           r.IntervalDays,
		Scope:                  domain.ReminderScope(r.Scope),
		GradeID:                r.GradeID,
		IncludeCurrentTerm:     r.IncludeCurrentTerm,
		IncludePreviousBalance: r.IncludePreviousBalance,
	}
}

// ReminderSettingsResponse defines the data returned for the automation settings.
type ReminderSettingsResponse struct {
	IsEnabled              bool                 `json:"isEnabled"`
	State                  domain.ReminderState `json:"state"`
	IntervalDays           int                  `json:"intervalDays"`
	Scope                  domain.ReminderScope `json:"scope"`
	GradeID                *string              `json:"gradeId,omitempty"`
	IncludeCurrentTerm     bool                 `json:"includeCurrentTerm"`
	IncludePreviousBalance bool                 `json:"includePreviousBalance"`
	LastRunAt              *time.Time           `json:"lastRunAt,omitempty"`
	NextRunAt              *time.Time           `json:"nextRunAt,omitempty"`
}

// ToReminderSettingsResponse converts the settings and the scheduler state.
func ToReminderSettingsResponse(s *domain.ReminderAutomationSettings, state domain.ReminderState) ReminderSettingsResponse {
	return ReminderSettingsResponse{
		IsEnabled:              s.IsEnabled,
		State:                  state,
		IntervalDays:           s.IntervalDays,
		Scope:                  s.Scope,
		GradeID:                s.GradeID,
		IncludeCurrentTerm:     s.IncludeCurrentTerm,
		IncludePreviousBalance: s.IncludePreviousBalance,
		LastRunAt:              s.LastRunAt,
		NextRunAt:              s.NextRunAt,
	}
}

// ListReminderRunsParams defines query parameters for run history.
type ListReminderRunsParams struct {
	Limit int `form:"limit,default=20" binding:"min=1,max=200"`
}
