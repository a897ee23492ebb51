package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a row of the invoices table.
type Invoice struct {
	InvoiceID        string          `db:"invoice_id"`
	InvoiceNumber    string          `db:"invoice_number"`
	LearnerID        string          `db:"learner_id"`
	GradeID          string          `db:"grade_id"`
	AcademicYear     string          `db:"academic_year"`
	Term             string          `db:"term"`
	FeeStructureID   string          `db:"fee_structure_id"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	DiscountAmount   decimal.Decimal `db:"discount_amount"`
	AppliedDiscounts []string        `db:"applied_discounts"`
	AmountPaid       decimal.Decimal `db:"amount_paid"`
	BalanceDue       decimal.Decimal `db:"balance_due"`
	Status           string          `db:"status"`
	IssueDate        time.Time       `db:"issue_date"`
	DueDate          time.Time       `db:"due_date"`
	CancelReason     *string         `db:"cancel_reason"`
	CancelledAt      *time.Time      `db:"cancelled_at"`
	AuditFields
}
