package mapping

import (
	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/SscSPs/school_fees_ledger/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:     d.TransactionID,
		TransactionNumber: d.TransactionNumber,
		LearnerID:         d.LearnerID,
		InvoiceID:         d.InvoiceID,
		AcademicYear:      optionalString(d.AcademicYear),
		Term:              optionalString(d.Term),
		AmountPaid:        d.Amount,
		PaymentMethod:     string(d.PaymentMethod),
		PaymentDate:       d.PaymentDate,
		ReferenceNumber:   d.ReferenceNumber,
		ReceiptNumber:     d.ReceiptNumber,
		IsLegacy:          d.IsLegacy,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:     m.TransactionID,
		TransactionNumber: m.TransactionNumber,
		LearnerID:         m.LearnerID,
		InvoiceID:         m.InvoiceID,
		Period:            domain.Period{AcademicYear: derefString(m.AcademicYear), Term: derefString(m.Term)},
		Amount:            m.AmountPaid,
		PaymentMethod:     domain.PaymentMethod(m.PaymentMethod),
		PaymentDate:       m.PaymentDate,
		ReferenceNumber:   m.ReferenceNumber,
		ReceiptNumber:     m.ReceiptNumber,
		IsLegacy:          m.IsLegacy,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
