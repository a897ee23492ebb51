package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table, or a legacy fee_payments
// row projected onto the same columns.
type Transaction struct {
	TransactionID     string          `db:"transaction_id"`
	TransactionNumber string          `db:"transaction_number"`
	LearnerID         string          `db:"learner_id"`
	InvoiceID         *string         `db:"invoice_id"`
	AcademicYear      *string         `db:"academic_year"`
	Term              *string         `db:"term"`
	AmountPaid        decimal.Decimal `db:"amount_paid"`
	PaymentMethod     string          `db:"payment_method"`
	PaymentDate       time.Time       `db:"payment_date"`
	ReferenceNumber   *string         `db:"reference_number"`
	ReceiptNumber     *string         `db:"receipt_number"`
	IsLegacy          bool            `db:"is_legacy"`
	AuditFields
}
