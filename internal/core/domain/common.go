package domain

import (
	"fmt"
	"strings"
	"time"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// NewAuditFields stamps creation and update fields with the same actor and time.
func NewAuditFields(actor string, at time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     at,
		CreatedBy:     actor,
		LastUpdatedAt: at,
		LastUpdatedBy: actor,
	}
}

// Touch records an update.
func (a *AuditFields) Touch(actor string, at time.Time) {
	a.LastUpdatedAt = at
	a.LastUpdatedBy = actor
}

// SystemActor is the audit identity used by unattended jobs.
const SystemActor = "system"

// Period identifies one billing term of an academic year, e.g. {"2024-2025", "term_1"}.
type Period struct {
	AcademicYear string `json:"academicYear"`
	Term         string `json:"term"`
}

// Validate checks that both parts of the period are present.
func (p Period) Validate() error {
	if strings.TrimSpace(p.AcademicYear) == "" {
		return fmt.Errorf("academic year is required")
	}
	if strings.TrimSpace(p.Term) == "" {
		return fmt.Errorf("term is required")
	}
	return nil
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool {
	return p.AcademicYear == "" && p.Term == ""
}

func (p Period) String() string {
	return p.AcademicYear + "/" + p.Term
}

// AcademicPeriod is a Period with its calendar bounds.
type AcademicPeriod struct {
	Period
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsCurrent bool      `json:"isCurrent"`
}

// Contains reports whether t falls within the period bounds (inclusive start, exclusive end).
func (p AcademicPeriod) Contains(t time.Time) bool {
	return !t.Before(p.StartDate) && t.Before(p.EndDate)
}
