package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the settlement state of an invoice.
type InvoiceStatus string

const (
	InvoiceGenerated InvoiceStatus = "generated"
	InvoicePartial   InvoiceStatus = "partial"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// Invoice is a learner's bill for one period, derived from a fee structure.
type Invoice struct {
	InvoiceID        string          `json:"invoiceId"`
	InvoiceNumber    string          `json:"invoiceNumber"` // Unique, period scoped, assigned on insert
	LearnerID        string          `json:"learnerId"`
	GradeID          string          `json:"gradeId"` // Grade at time of generation
	Period                           // AcademicYear + Term
	FeeStructureID   string          `json:"feeStructureId"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	DiscountAmount   decimal.Decimal `json:"discountAmount"`
	AppliedDiscounts []DiscountType  `json:"appliedDiscounts,omitempty"`
	AmountPaid       decimal.Decimal `json:"amountPaid"`
	BalanceDue       decimal.Decimal `json:"balanceDue"`
	Status           InvoiceStatus   `json:"status"`
	IssueDate        time.Time       `json:"issueDate"`
	DueDate          time.Time       `json:"dueDate"`
	CancelReason     *string         `json:"cancelReason,omitempty"`
	CancelledAt      *time.Time      `json:"cancelledAt,omitempty"`
	AuditFields
}

// NewInvoice prices a fee structure for a learner. The invoice number is left
// empty; the store assigns it from the period sequence on insert.
func NewInvoice(learner LearnerSummary, fs FeeStructure, discounts []DiscountSetting, issueDate time.Time, defaultDueDays int, actor string) Invoice {
	discount, applied := ComputeDiscount(fs.TotalAmount, learner, discounts)
	inv := Invoice{
		InvoiceID:        uuid.NewString(),
		LearnerID:        learner.LearnerID,
		GradeID:          learner.GradeID,
		Period:           fs.Period,
		FeeStructureID:   fs.FeeStructureID,
		TotalAmount:      fs.TotalAmount,
		DiscountAmount:   discount,
		AppliedDiscounts: applied,
		AmountPaid:       decimal.Zero,
		Status:           InvoiceGenerated,
		IssueDate:        issueDate,
		DueDate:          fs.DueDateFor(issueDate, defaultDueDays),
		AuditFields:      NewAuditFields(actor, issueDate),
	}
	inv.recomputeBalance()
	return inv
}

// NetAmount is the amount owed before payments.
func (i Invoice) NetAmount() decimal.Decimal {
	return i.TotalAmount.Sub(i.DiscountAmount)
}

// IsCancelled reports whether the invoice has been cancelled.
func (i Invoice) IsCancelled() bool {
	return i.Status == InvoiceCancelled
}

func (i *Invoice) recomputeBalance() {
	balance := i.NetAmount().Sub(i.AmountPaid)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	i.BalanceDue = balance
}

// DeriveStatus computes the status of an invoice at a point in time.
// Cancelled is terminal. Otherwise a zero balance is paid, a positive balance
// past the due date is overdue, any payment short of net is partial, and
// anything else is generated.
func DeriveStatus(inv Invoice, now time.Time) InvoiceStatus {
	if inv.IsCancelled() {
		return InvoiceCancelled
	}
	if !inv.BalanceDue.IsPositive() {
		return InvoicePaid
	}
	if inv.DueDate.Before(now) {
		return InvoiceOverdue
	}
	if inv.AmountPaid.IsPositive() {
		return InvoicePartial
	}
	return InvoiceGenerated
}

// RefreshStatus re-derives Status in place.
func (i *Invoice) RefreshStatus(now time.Time) {
	i.Status = DeriveStatus(*i, now)
}

// ApplyPayment credits amount to the invoice. Overpayment is accepted:
// AmountPaid may exceed NetAmount while BalanceDue clamps at zero.
func (i *Invoice) ApplyPayment(amount decimal.Decimal, actor string, now time.Time) error {
	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	if i.IsCancelled() {
		return apperrors.ErrInvoiceCancelled
	}
	i.AmountPaid = i.AmountPaid.Add(amount)
	i.recomputeBalance()
	i.RefreshStatus(now)
	i.Touch(actor, now)
	return nil
}

// Cancel voids the invoice. AmountPaid and BalanceDue are frozen as they are.
func (i *Invoice) Cancel(reason, actor string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperrors.ErrReasonRequired
	}
	if i.IsCancelled() {
		return apperrors.ErrAlreadyCancelled
	}
	i.Status = InvoiceCancelled
	i.CancelReason = &reason
	i.CancelledAt = &now
	i.Touch(actor, now)
	return nil
}

// InvoiceSequenceScope is the sequence key invoice numbers of a period are drawn from.
func InvoiceSequenceScope(p Period) string {
	return "INV/" + p.AcademicYear + "/" + p.Term
}

// FormatInvoiceNumber renders a period-scoped, sortable invoice number.
func FormatInvoiceNumber(p Period, seq int64) string {
	return fmt.Sprintf("INV-%s-%s-%06d", p.AcademicYear, strings.ToUpper(p.Term), seq)
}

// InvoiceFilter narrows invoice listings. Empty fields do not filter.
type InvoiceFilter struct {
	LearnerID    string
	GradeID      string
	AcademicYear string
	Term         string
	Status       InvoiceStatus // Compared against the status derived at AsOf
	AsOf         time.Time
}

// Matches reports whether inv passes the filter.
func (f InvoiceFilter) Matches(inv Invoice) bool {
	if f.LearnerID != "" && inv.LearnerID != f.LearnerID {
		return false
	}
	if f.GradeID != "" && inv.GradeID != f.GradeID {
		return false
	}
	if f.AcademicYear != "" && inv.AcademicYear != f.AcademicYear {
		return false
	}
	if f.Term != "" && inv.Term != f.Term {
		return false
	}
	if f.Status != "" && DeriveStatus(inv, f.AsOf) != f.Status {
		return false
	}
	return true
}

// GenerationResult summarises one GenerateInvoices batch.
type GenerationResult struct {
	Created int                    `json:"created"`
	Skipped int                    `json:"skipped"`
	Errors  []apperrors.BatchError `json:"errors"`
}
