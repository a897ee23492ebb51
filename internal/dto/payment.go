package dto

import (
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest defines a received payment. Without InvoiceID the
// payment is recorded as an ad-hoc fee payment, optionally tagged with a term.
type RecordPaymentRequest struct {
	LearnerID       string               `json:"learnerId" binding:"required"`
	Amount          decimal.Decimal      `json:"amount" binding:"required"`
	Method          domain.PaymentMethod `json:"method" binding:"required"`
	InvoiceID       *string              `json:"invoiceId"`       // Optional
	ReferenceNumber *string              `json:"referenceNumber"` // Optional, e.g. bank or M-Pesa reference
	ReceiptNumber   *string              `json:"receiptNumber"`   // Optional
	PaymentDate     *time.Time           `json:"paymentDate"`     // Defaults to now
	AcademicYear    *string              `json:"academicYear"`    // Ad-hoc payments only
	Term            *string              `json:"term"`            // Ad-hoc payments only
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID     string               `json:"transactionId"`
	TransactionNumber string               `json:"transactionNumber"`
	LearnerID         string               `json:"learnerId"`
	InvoiceID         *string              `json:"invoiceId,omitempty"`
	AcademicYear      string               `json:"academicYear,omitempty"`
	Term              string               `json:"term,omitempty"`
	AmountPaid        decimal.Decimal      `json:"amountPaid"`
	PaymentMethod     domain.PaymentMethod `json:"paymentMethod"`
	PaymentDate       time.Time            `json:"paymentDate"`
	ReferenceNumber   *string              `json:"referenceNumber,omitempty"`
	ReceiptNumber     *string              `json:"receiptNumber,omitempty"`
	IsLegacy          bool                 `json:"isLegacy"`
	CreatedBy         string               `json:"createdBy"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:     txn.TransactionID,
		TransactionNumber: txn.TransactionNumber,
		LearnerID:         txn.LearnerID,
		InvoiceID:         txn.InvoiceID,
		AcademicYear:      txn.AcademicYear,
		Term:              txn.Term,
		AmountPaid:        txn.Amount,
		PaymentMethod:     txn.PaymentMethod,
		PaymentDate:       txn.PaymentDate,
		ReferenceNumber:   txn.ReferenceNumber,
		ReceiptNumber:     txn.ReceiptNumber,
		IsLegacy:          txn.IsLegacy,
		CreatedBy:         txn.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}
