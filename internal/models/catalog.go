package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeLineItem is stored inside fee_structures.line_items as JSON.
type FeeLineItem struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// FeeStructure is a row of the fee_structures table.
type FeeStructure struct {
	FeeStructureID string          `db:"fee_structure_id"`
	AcademicYear   string          `db:"academic_year"`
	Term           string          `db:"term"`
	GradeID        string          `db:"grade_id"`
	LineItems      []FeeLineItem   `db:"line_items"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	DueDate        *time.Time      `db:"due_date"`
	AuditFields
}

// DiscountSetting is a row of the discount_settings table.
type DiscountSetting struct {
	DiscountType string          `db:"discount_type"`
	Percentage   decimal.Decimal `db:"percentage"`
	IsEnabled    bool            `db:"is_enabled"`
	AuditFields
}

// Learner is the ledger's projection of the learners table.
type Learner struct {
	LearnerID        string  `db:"learner_id"`
	AdmissionNumber  string  `db:"admission_number"`
	FullName         string  `db:"full_name"`
	GradeID          string  `db:"grade_id"`
	IsStaffChild     bool    `db:"is_staff_child"`
	BursaryFlag      bool    `db:"bursary_flag"`
	HasActiveSibling bool    `db:"has_active_sibling"`
	GuardianName     *string `db:"guardian_name"`
	GuardianPhone    *string `db:"guardian_phone"`
	GuardianEmail    *string `db:"guardian_email"`
}

// AcademicPeriod is a row of the academic_periods table.
type AcademicPeriod struct {
	AcademicYear string    `db:"academic_year"`
	Term         string    `db:"term"`
	StartDate    time.Time `db:"start_date"`
	EndDate      time.Time `db:"end_date"`
	IsCurrent    bool      `db:"is_current"`
}
