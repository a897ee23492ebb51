package mapping

import (
	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/SscSPs/school_fees_ledger/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	applied := make([]string, len(d.AppliedDiscounts))
	for i, t := range d.AppliedDiscounts {
		applied[i] = string(t)
	}
	return models.Invoice{
		InvoiceID:        d.InvoiceID,
		InvoiceNumber:    d.InvoiceNumber,
		LearnerID:        d.LearnerID,
		GradeID:          d.GradeID,
		AcademicYear:     d.AcademicYear,
		Term:             d.Term,
		FeeStructureID:   d.FeeStructureID,
		TotalAmount:      d.TotalAmount,
		DiscountAmount:   d.DiscountAmount,
		AppliedDiscounts: applied,
		AmountPaid:       d.AmountPaid,
		BalanceDue:       d.BalanceDue,
		Status:           string(d.Status),
		IssueDate:        d.IssueDate,
		DueDate:          d.DueDate,
		CancelReason:     d.CancelReason,
		CancelledAt:      d.CancelledAt,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	var applied []domain.DiscountType
	for _, t := range m.AppliedDiscounts {
		applied = append(applied, domain.DiscountType(t))
	}
	return domain.Invoice{
		InvoiceID:        m.InvoiceID,
		InvoiceNumber:    m.InvoiceNumber,
		LearnerID:        m.LearnerID,
		GradeID:          m.GradeID,
		Period:           domain.Period{AcademicYear: m.AcademicYear, Term: m.Term},
		FeeStructureID:   m.FeeStructureID,
		TotalAmount:      m.TotalAmount,
		DiscountAmount:   m.DiscountAmount,
		AppliedDiscounts: applied,
		AmountPaid:       m.AmountPaid,
		BalanceDue:       m.BalanceDue,
		Status:           domain.InvoiceStatus(m.Status),
		IssueDate:        m.IssueDate,
		DueDate:          m.DueDate,
		CancelReason:     m.CancelReason,
		CancelledAt:      m.CancelledAt,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInvoiceSlice converts a slice of model Invoices to a slice of domain Invoices
func ToDomainInvoiceSlice(ms []models.Invoice) []domain.Invoice {
	ds := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoice(m)
	}
	return ds
}
