package dto

import (
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/apperrors"
	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GenerateInvoicesRequest defines the batch to invoice. GradeID limits the batch to one grade.
type GenerateInvoicesRequest struct {
	AcademicYear string  `json:"academicYear" binding:"required"`
	Term         string  `json:"term" binding:"required"`
	GradeID      *string `json:"gradeId"` // Optional
}

// Period returns the requested billing period.
func (r GenerateInvoicesRequest) Period() domain.Period {
	return domain.Period{AcademicYear: r.AcademicYear, Term: r.Term}
}

// GenerateInvoicesResponse reports the outcome of a batch.
type GenerateInvoicesResponse struct {
	Created int                    `json:"created"`
	Skipped int                    `json:"skipped"`
	Errors  []apperrors.BatchError `json:"errors"`
}

// ToGenerateInvoicesResponse converts a domain.GenerationResult.
func ToGenerateInvoicesResponse(r *domain.GenerationResult) GenerateInvoicesResponse {
	errs := r.Errors
	if errs == nil {
		errs = []apperrors.BatchError{}
	}
	return GenerateInvoicesResponse{Created: r.Created, Skipped: r.Skipped, Errors: errs}
}

// CancelInvoiceRequest carries the mandatory cancellation reason.
type CancelInvoiceRequest struct {
	Reason string `json:"reason"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID        string                `json:"invoiceId"`
	InvoiceNumber    string                `json:"invoiceNumber"`
	LearnerID        string                `json:"learnerId"`
	GradeID          string                `json:"gradeId"`
	AcademicYear     string                `json:"academicYear"`
	Term             string                `json:"term"`
	TotalAmount      decimal.Decimal       `json:"totalAmount"`
	DiscountAmount   decimal.Decimal       `json:"discountAmount"`
	AppliedDiscounts []domain.DiscountType `json:"appliedDiscounts"`
	AmountPaid       decimal.Decimal       `json:"amountPaid"`
	BalanceDue       decimal.Decimal       `json:"balanceDue"`
	Status           domain.InvoiceStatus  `json:"status"`
	IssueDate        time.Time             `json:"issueDate"`
	DueDate          time.Time             `json:"dueDate"`
	CancelReason     *string               `json:"cancelReason,omitempty"`
	CancelledAt      *time.Time            `json:"cancelledAt,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	CreatedBy        string                `json:"createdBy"`
	LastUpdatedAt    time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy    string                `json:"lastUpdatedBy"`
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	applied := inv.AppliedDiscounts
	if applied == nil {
		applied = []domain.DiscountType{}
	}
	return InvoiceResponse{
		InvoiceID:        inv.InvoiceID,
		InvoiceNumber:    inv.InvoiceNumber,
		LearnerID:        inv.LearnerID,
		GradeID:          inv.GradeID,
		AcademicYear:     inv.AcademicYear,
		Term:             inv.Term,
		TotalAmount:      inv.TotalAmount,
		DiscountAmount:   inv.DiscountAmount,
		AppliedDiscounts: applied,
		AmountPaid:       inv.AmountPaid,
		BalanceDue:       inv.BalanceDue,
		Status:           inv.Status,
		IssueDate:        inv.IssueDate,
		DueDate:          inv.DueDate,
		CancelReason:     inv.CancelReason,
		CancelledAt:      inv.CancelledAt,
		CreatedAt:        inv.CreatedAt,
		CreatedBy:        inv.CreatedBy,
		LastUpdatedAt:    inv.LastUpdatedAt,
		LastUpdatedBy:    inv.LastUpdatedBy,
	}
}

// ToInvoiceResponses converts a slice of domain.Invoice.
func ToInvoiceResponses(invoices []domain.Invoice) []InvoiceResponse {
	res := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		res[i] = ToInvoiceResponse(&inv)
	}
	return res
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	Limit        int    `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken    string `form:"nextToken"`
	LearnerID    string `form:"learnerId"`
	GradeID      string `form:"gradeId"`
	AcademicYear string `form:"academicYear"`
	Term         string `form:"term"`
	Status       string `form:"status" binding:"omitempty,oneof=generated partial paid overdue cancelled"`
}

// Filter converts the query parameters into a domain filter.
func (p ListInvoicesParams) Filter() domain.InvoiceFilter {
	return domain.InvoiceFilter{
		LearnerID:    p.LearnerID,
		GradeID:      p.GradeID,
		AcademicYear: p.AcademicYear,
		Term:         p.Term,
		Status:       domain.InvoiceStatus(p.Status),
	}
}

// ListInvoicesResponse wraps a page of invoices.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}
