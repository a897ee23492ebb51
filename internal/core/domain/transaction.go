package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how money was received.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentMobileMoney  PaymentMethod = "mobile_money"
	PaymentCheque       PaymentMethod = "cheque"
	PaymentCard         PaymentMethod = "card"
)

// IsValid reports whether m is an accepted payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentBankTransfer, PaymentMobileMoney, PaymentCheque, PaymentCard:
		return true
	}
	return false
}

// Transaction is one received payment. It may settle an invoice or be an
// ad-hoc fee payment with no invoice. Legacy rows come from the historical
// fee_payments table and are read-only.
type Transaction struct {
	TransactionID     string          `json:"transactionId"`
	TransactionNumber string          `json:"transactionNumber"` // Unique, assigned on insert
	LearnerID         string          `json:"learnerId"`
	InvoiceID         *string         `json:"invoiceId,omitempty"`
	Period                            // Optional for ad-hoc payments
	Amount            decimal.Decimal `json:"amountPaid"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod"`
	PaymentDate       time.Time       `json:"paymentDate"`
	ReferenceNumber   *string         `json:"referenceNumber,omitempty"`
	ReceiptNumber     *string         `json:"receiptNumber,omitempty"`
	IsLegacy          bool            `json:"isLegacy"`
	AuditFields
}

// TransactionSequenceScope is the sequence key for transactions received in year.
func TransactionSequenceScope(year int) string {
	return fmt.Sprintf("TXN/%d", year)
}

// FormatTransactionNumber renders a unique transaction number.
func FormatTransactionNumber(year int, seq int64) string {
	return fmt.Sprintf("TXN-%d-%06d", year, seq)
}
